package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dms-app/dms-backend/models"
	"github.com/dms-app/dms-backend/service"
	"github.com/dms-app/dms-backend/store"
)

// notifyAdmins fans a new permission request out to every admin: an
// in-app notification per admin, plus an email when SMTP is configured.
// Notification failures are logged, never surfaced to the requester.
func notifyAdmins(ctx context.Context, db store.Store, mailer *service.Mailer, doc *models.Document, action, requester string) {
	admins, err := db.Admins(ctx)
	if err != nil {
		log.Printf("notify: list admins: %v", err)
		return
	}
	title := fmt.Sprintf("Document %s Request", action)
	message := fmt.Sprintf("%s requested %s for %q", requester, action, doc.Title)
	for _, admin := range admins {
		n := &models.Notification{
			UserID:    admin.ID,
			Title:     title,
			Message:   message,
			CreatedAt: time.Now(),
		}
		if err := db.InsertNotification(ctx, n); err != nil {
			log.Printf("notify: insert for %s: %v", admin.Username, err)
		}
		mailer.Notify(admin.Email, title, message)
	}
}
