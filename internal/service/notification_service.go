package service

import (
	"context"
	"encoding/json"
	"fmt"

	"stayhub/internal/domain"
	"stayhub/internal/models"
	"stayhub/internal/repository"
)

// UserBroadcaster pushes a payload to a user's open websocket connections.
type UserBroadcaster interface {
	BroadcastToUser(userID uint, payload interface{})
}

// NotificationService persists in-app notifications and mirrors them as FCM
// pushes and websocket events. Everything here is fire-and-forget from the
// caller's perspective.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
	email    *EmailService
	live     UserBroadcaster
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService, email *EmailService, live UserBroadcaster) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm, email: email, live: live}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(context.Background(), &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	if s.live != nil {
		s.live.BroadcastToUser(userID, map[string]interface{}{
			"type":  notifType,
			"title": title,
			"body":  body,
			"data":  data,
		})
	}
	s.sendPush(userID, notifType, title, body, data)
	return nil
}

func (s *NotificationService) sendPush(userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || u == nil || u.FCMToken == "" {
		return
	}
	_ = s.fcm.SendToUser(context.Background(), u.FCMToken, notifType, title, body, data)
}

// NotifyBookingRequest tells the listing owner a new request came in.
func (s *NotificationService) NotifyBookingRequest(b *models.Booking) {
	_ = s.Notify(b.OwnerID, domain.NotifBookingRequest, "New booking request",
		fmt.Sprintf("A new booking request is awaiting payment (ticket %s)", b.Ticket),
		map[string]interface{}{"booking_id": b.ID, "ticket": b.Ticket})
}

func (s *NotificationService) NotifyBookingConfirmed(b *models.Booking) {
	_ = s.Notify(b.RequesterID, domain.NotifBookingConfirmed, "Booking confirmed",
		"Your booking is confirmed. Ticket: "+b.Ticket,
		map[string]interface{}{"booking_id": b.ID, "ticket": b.Ticket, "amount_cents": b.GrossAmountCents})
	_ = s.Notify(b.OwnerID, domain.NotifBookingConfirmed, "Booking paid",
		"A booking on your listing was paid and confirmed",
		map[string]interface{}{"booking_id": b.ID, "ticket": b.Ticket})
	if s.email != nil {
		s.email.SendBookingConfirmation(b)
	}
}

func (s *NotificationService) NotifyBookingCanceled(b *models.Booking, byUserID *uint) {
	data := map[string]interface{}{"booking_id": b.ID, "ticket": b.Ticket}
	_ = s.Notify(b.RequesterID, domain.NotifBookingCanceled, "Booking canceled",
		"Your booking "+b.Ticket+" was canceled", data)
	if byUserID == nil || *byUserID != b.OwnerID {
		_ = s.Notify(b.OwnerID, domain.NotifBookingCanceled, "Booking canceled",
			"A booking on your listing was canceled", data)
	}
}

func (s *NotificationService) NotifyBookingActive(b *models.Booking) {
	_ = s.Notify(b.RequesterID, domain.NotifBookingActive, "Booking started",
		"Your booking "+b.Ticket+" is now active",
		map[string]interface{}{"booking_id": b.ID, "ticket": b.Ticket})
}

func (s *NotificationService) NotifyBookingCompleted(b *models.Booking) {
	_ = s.Notify(b.RequesterID, domain.NotifBookingCompleted, "Booking completed",
		"Your booking "+b.Ticket+" is complete. Thanks for staying with us!",
		map[string]interface{}{"booking_id": b.ID, "ticket": b.Ticket})
}
