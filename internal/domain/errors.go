package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument: нарушение контракта вызывающей стороной; хранилище при этом не трогается.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStorage: общий маркер сбоя хранилища; ему соответствует любая *StorageError.
	ErrStorage = errors.New("storage failure")
	// ErrNotFound: ожидаемая запись не найдена (update/delete/remove).
	ErrNotFound = errors.New("not found")
	// ErrCartNotCleared: заказ сохранён, но корзина пользователя не очищена.
	ErrCartNotCleared = errors.New("order placed but cart was not cleared")
	// ErrAmountOutOfRange: сумма не помещается в колонку decimal(10,2).
	ErrAmountOutOfRange = errors.New("amount out of range")
	// ErrQuantityOutOfRange: количество в строке корзины не помещается в INT.
	ErrQuantityOutOfRange = errors.New("quantity out of range")
)

// StorageError оборачивает любую ошибку слоя хранения и сохраняет исходную причину.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError создаёт ошибку хранилища для операции op.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// NotFoundError: сокращение для StorageError с причиной ErrNotFound.
func NotFoundError(op string) *StorageError {
	return &StorageError{Op: op, Err: ErrNotFound}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + ErrStorage.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать любую StorageError с ErrStorage через errors.Is.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// InvalidArgumentf формирует ошибку ErrInvalidArgument с пояснением.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsInvalidArgument проверяет, является ли ошибка нарушением контракта вызова.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsStorageFailure проверяет, является ли ошибка сбоем хранилища.
func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsNotFound проверяет, что ожидаемая запись отсутствует.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCartNotCleared проверяет частичный успех оформления заказа.
func IsCartNotCleared(err error) bool {
	return errors.Is(err, ErrCartNotCleared)
}
