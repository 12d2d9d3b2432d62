package userstore

import "errors"

var (
	ErrUserNotFound      = errors.New("userstore.user_not_found")
	ErrUserAlreadyExists = errors.New("userstore.user_already_exists")
	ErrEmptyUserID       = errors.New("userstore.empty_user_id")
	ErrStoreUnavailable  = errors.New("userstore.store_unavailable")
)
