package service

import "errors"

var (
	ErrInvalidTournament = errors.New("invalid tournament")
	ErrWrongFormat       = errors.New("operation does not apply to this tournament format")
)
