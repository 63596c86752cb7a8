package domain

import "errors"

// Доменные ошибки трекера отпусков
var (
	// ErrMemberNotFound возвращается когда участник с таким ID отсутствует
	ErrMemberNotFound = errors.New("team member not found")

	// ErrMemberRejected возвращается при попытке добавить участника с пустым именем или без дат
	ErrMemberRejected = errors.New("team member requires a name and at least one leave date")

	// ErrEditInProgress возвращается когда другой участник уже находится в режиме редактирования
	ErrEditInProgress = errors.New("another team member is being edited")

	// ErrNotEditing возвращается при работе с черновиком участника вне режима редактирования
	ErrNotEditing = errors.New("team member is not in edit mode")

	// ErrInvalidDraft возвращается при сохранении черновика с пустым именем или без дат
	ErrInvalidDraft = errors.New("draft requires a name and at least one leave date")

	// ErrInvalidMonth возвращается для номера месяца вне диапазона 1..12
	ErrInvalidMonth = errors.New("month must be between 1 and 12")

	// ErrNothingToSave возвращается при сохранении пустого списка участников
	ErrNothingToSave = errors.New("no team members to save")

	// ErrCorruptState возвращается когда сохраненные данные не проходят валидацию
	ErrCorruptState = errors.New("corrupt stored state")

	// ErrInvalidLease возвращается когда токен редактирования невалиден или устарел
	ErrInvalidLease = errors.New("invalid edit lease")

	// ErrLeaseExpired возвращается когда срок токена редактирования истек
	ErrLeaseExpired = errors.New("edit lease expired")
)

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeNotFound       ErrorCode = "NOT_FOUND"        // Участник не найден
	CodeMemberRejected ErrorCode = "MEMBER_REJECTED"  // Пустое имя или нет дат
	CodeEditInProgress ErrorCode = "EDIT_IN_PROGRESS" // Редактируется другой участник
	CodeNotEditing     ErrorCode = "NOT_EDITING"      // Участник не в режиме редактирования
	CodeInvalidDraft   ErrorCode = "INVALID_DRAFT"    // Черновик нельзя сохранить
	CodeInvalidMonth   ErrorCode = "INVALID_MONTH"    // Неверный номер месяца
	CodeNothingToSave  ErrorCode = "NOTHING_TO_SAVE"  // Нечего сохранять
	CodeCorruptState   ErrorCode = "CORRUPT_STATE"    // Поврежденные данные хранилища
	CodeInvalidLease   ErrorCode = "INVALID_LEASE"    // Невалидный токен редактирования
	CodeLeaseExpired   ErrorCode = "LEASE_EXPIRED"    // Истек токен редактирования
	CodeInternal       ErrorCode = "INTERNAL_ERROR"   // Внутренняя ошибка
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrMemberNotFound):
		return CodeNotFound
	case errors.Is(err, ErrMemberRejected):
		return CodeMemberRejected
	case errors.Is(err, ErrEditInProgress):
		return CodeEditInProgress
	case errors.Is(err, ErrNotEditing):
		return CodeNotEditing
	case errors.Is(err, ErrInvalidDraft):
		return CodeInvalidDraft
	case errors.Is(err, ErrInvalidMonth):
		return CodeInvalidMonth
	case errors.Is(err, ErrNothingToSave):
		return CodeNothingToSave
	case errors.Is(err, ErrCorruptState):
		return CodeCorruptState
	case errors.Is(err, ErrLeaseExpired):
		return CodeLeaseExpired
	case errors.Is(err, ErrInvalidLease):
		return CodeInvalidLease
	default:
		return CodeInternal
	}
}
