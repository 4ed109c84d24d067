package channels

import "push-channel-sync/internal/domain"

// ResolveText выбирает тексты канала для активного языка. Если в langs есть
// запись для этого языка, имя, описание и имя группы берутся целиком из неё;
// иначе — из базовых полей спецификации. Имя по умолчанию — "Miscellaneous",
// описание по умолчанию отсутствует.
func ResolveText(spec domain.ChannelSpec, language string) domain.ResolvedText {
	text := domain.ResolvedText{
		Name:        spec.Name,
		Description: spec.Description,
		GroupName:   spec.GroupName,
	}
	if localized, ok := spec.Langs[language]; ok {
		text = domain.ResolvedText{
			Name:        localized.Name,
			Description: localized.Description,
			GroupName:   localized.GroupName,
		}
	}
	if text.Name == "" {
		text.Name = domain.DefaultChannelName
	}
	return text
}
