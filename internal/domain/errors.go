package domain

import "errors"

// ErrConfigRejected возвращается хостом при отклонении конфигурации канала
// или группы.
var ErrConfigRejected = errors.New("хост отклонил конфигурацию")

// ErrHostShutdown сигнализирует, что хост завершает работу. Ошибка
// проглатывается: процесс и так умирает, и её всплытие только запутает
// диагностику.
var ErrHostShutdown = errors.New("хост завершает работу")
