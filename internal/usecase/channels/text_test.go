package channels

import (
	"testing"

	"push-channel-sync/internal/domain"
)

func TestResolveTextPicksActiveLanguage(t *testing.T) {
	spec := domain.ChannelSpec{
		Name:        "News",
		Description: "Daily news",
		GroupName:   "Main",
		Langs: map[string]domain.LocalizedText{
			"ru": {Name: "Новости", Description: "Ежедневные новости", GroupName: "Основное"},
		},
	}
	text := ResolveText(spec, "ru")
	if text.Name != "Новости" {
		t.Fatalf("ожидали локализованное имя, получили %q", text.Name)
	}
	if text.Description != "Ежедневные новости" {
		t.Fatalf("ожидали локализованное описание, получили %q", text.Description)
	}
	if text.GroupName != "Основное" {
		t.Fatalf("ожидали локализованное имя группы, получили %q", text.GroupName)
	}
}

func TestResolveTextFallsBackToBaseFields(t *testing.T) {
	spec := domain.ChannelSpec{
		Name:        "News",
		Description: "Daily news",
		Langs: map[string]domain.LocalizedText{
			"ru": {Name: "Новости"},
		},
	}
	text := ResolveText(spec, "fr")
	if text.Name != "News" || text.Description != "Daily news" {
		t.Fatalf("ожидали базовые тексты, получили %+v", text)
	}
}

// Запись для активного языка заменяет базовые тексты целиком: отсутствующее
// в ней имя не добирается из базовых полей.
func TestResolveTextLocalizedEntryReplacesWholesale(t *testing.T) {
	spec := domain.ChannelSpec{
		Name: "News",
		Langs: map[string]domain.LocalizedText{
			"ru": {Description: "Только описание"},
		},
	}
	text := ResolveText(spec, "ru")
	if text.Name != domain.DefaultChannelName {
		t.Fatalf("ожидали имя по умолчанию, получили %q", text.Name)
	}
	if text.Description != "Только описание" {
		t.Fatalf("ожидали описание из локализованной записи, получили %q", text.Description)
	}
}

func TestResolveTextDefaults(t *testing.T) {
	text := ResolveText(domain.ChannelSpec{}, "en")
	if text.Name != domain.DefaultChannelName {
		t.Fatalf("ожидали %q, получили %q", domain.DefaultChannelName, text.Name)
	}
	if text.Description != "" {
		t.Fatalf("ожидали пустое описание, получили %q", text.Description)
	}
}
