package ordering

import "errors"

// Doğrulama hataları: istek sheet'e hiç gitmeden reddedilir
var (
	ErrEmptyCart     = errors.New("sepet boş")
	ErrTableRequired = errors.New("masa numarası seçilmemiş")
	ErrEmptyRequest  = errors.New("istek metni boş")
)
