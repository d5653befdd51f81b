package entity

import "errors"

var (
	ErrLeadNotFound      = errors.New("lead introuvable")
	ErrInvalidTransition = errors.New("transition de statut invalide")
)
