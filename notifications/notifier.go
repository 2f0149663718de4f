package notifications

import (
	"log"
	"time"

	"github.com/etuitionbd/etuition_backend/database"
	"github.com/etuitionbd/etuition_backend/models"
	"github.com/etuitionbd/etuition_backend/websocket"
)

// Emit records an in-app notification for the target email and pushes it to
// a live dashboard connection if one exists. Emission must never block or
// roll back the state transition that triggered it, so every failure here is
// logged and swallowed.
func Emit(targetEmail, ntype, title, message, link string) {
	if targetEmail == "" {
		return
	}

	notification := models.Notification{
		UserEmail: targetEmail,
		Type:      ntype,
		Title:     title,
		Message:   message,
		Link:      link,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("🔥 Failed to store notification for %s: %v", targetEmail, err)
		return
	}

	websocket.Push(targetEmail, notification)
}
