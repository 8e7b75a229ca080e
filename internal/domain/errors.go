package domain

import "errors"

var (
	ErrTokenNotFound  = errors.New("token not found")
	ErrRedeemConflict = errors.New("redemption state changed concurrently")
	ErrCodeRequired   = errors.New("code is required")
)
