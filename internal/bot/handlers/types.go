package handlers

import (
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/interfaces"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Diary interfaces.DiaryServiceInterface
}
