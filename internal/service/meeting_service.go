package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/repository"
)

// meetingRequestStore is the slice of the request repository this
// service needs. *repository.MeetingRequestRepo satisfies it.
type meetingRequestStore interface {
	Create(ctx context.Context, m *model.MeetingRequest) error
	GetByID(ctx context.Context, id uint64) (model.MeetingRequest, error)
	UpdateDecision(ctx context.Context, id uint64, status string, confirmedAt *time.Time, responseNote *string) error
	ListByRequester(ctx context.Context, userID uint64) ([]model.MeetingRequest, error)
	ListAll(ctx context.Context) ([]model.MeetingRequest, error)
	MarkSeenByViewer(ctx context.Context, viewerID uint64) (int64, error)
	CountUnseenByViewer(ctx context.Context, viewerID uint64) (int64, error)
}

// agendaWriter receives the derived MEETING entries projected from
// approved requests. *repository.ScheduleRepo satisfies it.
type agendaWriter interface {
	Create(ctx context.Context, e *model.ScheduleEntry) error
}

// nameDirectory resolves a user id to a profile for display purposes.
// *repository.UserRepo satisfies it.
type nameDirectory interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// notificationSender fans a message out to a recipient set, excluding
// the actor. *Notifier satisfies it.
type notificationSender interface {
	Notify(ctx context.Context, recipientIDs []uint64, excludeActorID uint64, ntype, message string, source model.NotificationSource)
	NotifyPrivileged(ctx context.Context, excludeActorID uint64, ntype, message string, source model.NotificationSource)
}

// MeetingRequestService owns the meeting-request state machine:
// PENDING -> {APPROVED, REJECTED, RESCHEDULED}, all terminal. Approval
// with a confirmed time projects a MEETING entry onto the pastor's
// agenda as a best-effort derived write — the request's status is the
// source of truth and is never rolled back because the projection
// failed.
type MeetingRequestService struct {
	Requests meetingRequestStore
	Schedule agendaWriter
	Users    nameDirectory
	Notifier notificationSender
}

func NewMeetingRequestService(requests meetingRequestStore, schedule agendaWriter, users nameDirectory, notifier notificationSender) *MeetingRequestService {
	if requests == nil || schedule == nil || users == nil || notifier == nil {
		panic("nil dependency passed to NewMeetingRequestService")
	}
	return &MeetingRequestService{Requests: requests, Schedule: schedule, Users: users, Notifier: notifier}
}

// CreateMeetingRequestInput carries the client fields for a new request.
type CreateMeetingRequestInput struct {
	Reason           string
	Modality         string
	IsAllDay         bool
	EstimatedMinutes uint32
	SuggestedAt      time.Time
}

// Create stores a new PENDING request for the actor and notifies all
// active privileged users, excluding the actor.
func (s *MeetingRequestService) Create(ctx context.Context, actor Actor, in CreateMeetingRequestInput) (*model.MeetingRequest, error) {
	if in.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", repository.ErrValidation)
	}
	if in.Modality != model.ModalityInPerson && in.Modality != model.ModalityOnline {
		return nil, fmt.Errorf("%w: unknown modality %q", repository.ErrValidation, in.Modality)
	}
	if in.SuggestedAt.IsZero() {
		return nil, fmt.Errorf("%w: suggested date is required", repository.ErrValidation)
	}
	minutes := in.EstimatedMinutes
	if minutes == 0 {
		minutes = model.DefaultEstimatedMinutes
	}

	req := &model.MeetingRequest{
		RequestedBy:      actor.ID,
		Reason:           in.Reason,
		Modality:         in.Modality,
		IsAllDay:         in.IsAllDay,
		EstimatedMinutes: minutes,
		SuggestedAt:      in.SuggestedAt.UTC(),
		Status:           model.RequestPending,
	}
	if err := s.Requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.Notifier.NotifyPrivileged(ctx, actor.ID, model.NotifRequestCreated,
		fmt.Sprintf("New meeting request: %s", previewText(req.Reason, reasonPreviewLimit)),
		model.NotificationSource{Kind: model.SourceMeetingRequest, ID: req.ID})
	return req, nil
}

// DecideMeetingRequestInput carries a privileged decision.
type DecideMeetingRequestInput struct {
	Status       string
	ConfirmedAt  *time.Time
	ResponseNote *string
}

// Decide moves a PENDING request to APPROVED, REJECTED or RESCHEDULED.
// APPROVED and RESCHEDULED require a confirmed time. A request that has
// already left PENDING cannot be decided again. On approval the derived
// agenda entry is created after the status write; its failure is logged
// and swallowed.
func (s *MeetingRequestService) Decide(ctx context.Context, actor Actor, id uint64, in DecideMeetingRequestInput) (*model.MeetingRequest, error) {
	if !actor.Privileged() {
		return nil, fmt.Errorf("%w: only pastor or secretary may decide requests", repository.ErrForbidden)
	}
	if err := meetingDecisionError(in.Status, in.ConfirmedAt); err != nil {
		return nil, err
	}

	req, err := s.Requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: meeting request %d", repository.ErrNotFound, id)
		}
		return nil, err
	}
	if req.Status != model.RequestPending {
		return nil, fmt.Errorf("%w: request already %s", repository.ErrConflict, req.Status)
	}

	var confirmed *time.Time
	if in.ConfirmedAt != nil {
		t := in.ConfirmedAt.UTC()
		confirmed = &t
	}
	if err := s.Requests.UpdateDecision(ctx, req.ID, in.Status, confirmed, in.ResponseNote); err != nil {
		return nil, err
	}
	req.Status = in.Status
	req.ConfirmedAt = confirmed
	req.ResponseNote = in.ResponseNote

	// The status transition above is committed; everything below is
	// best effort and must not surface failures to the caller.
	if in.Status == model.RequestApproved && confirmed != nil {
		entry := derivedAgendaEntry(req, actor.ID, s.requesterName(ctx, req.RequestedBy))
		if err := s.Schedule.Create(ctx, &entry); err != nil {
			log.Printf("meeting-requests: derived agenda entry for request %d failed: %v", req.ID, err)
		}
	}

	ntype, message := decisionNotification(req)
	s.Notifier.Notify(ctx, []uint64{req.RequestedBy}, actor.ID, ntype, message,
		model.NotificationSource{Kind: model.SourceMeetingRequest, ID: req.ID})
	return &req, nil
}

func (s *MeetingRequestService) requesterName(ctx context.Context, userID uint64) string {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Sprintf("user #%d", userID)
	}
	return u.Name
}

// ListFor returns the requests visible to the actor: privileged roles
// see all (and viewing marks pending ones seen), requesters see their
// own.
func (s *MeetingRequestService) ListFor(ctx context.Context, actor Actor) ([]model.MeetingRequest, error) {
	if !actor.Privileged() {
		return s.Requests.ListByRequester(ctx, actor.ID)
	}
	if _, err := s.Requests.MarkSeenByViewer(ctx, actor.ID); err != nil {
		// Seen tracking only powers the unread badge; never fail the list.
		log.Printf("meeting-requests: mark seen for viewer %d failed: %v", actor.ID, err)
	}
	return s.Requests.ListAll(ctx)
}

// UnseenCount returns the actor's unread badge: pending requests whose
// seen set excludes them. Privileged roles only.
func (s *MeetingRequestService) UnseenCount(ctx context.Context, actor Actor) (int64, error) {
	if !actor.Privileged() {
		return 0, fmt.Errorf("%w: unseen count is staff-only", repository.ErrForbidden)
	}
	return s.Requests.CountUnseenByViewer(ctx, actor.ID)
}

// meetingDecisionError validates the shape of a decision before any
// record is touched.
func meetingDecisionError(status string, confirmedAt *time.Time) error {
	switch status {
	case model.RequestApproved, model.RequestRescheduled:
		if confirmedAt == nil || confirmedAt.IsZero() {
			return fmt.Errorf("%w: %s requires a confirmed date/time", repository.ErrValidation, status)
		}
		return nil
	case model.RequestRejected:
		return nil
	}
	return fmt.Errorf("%w: decision must be APPROVED, REJECTED or RESCHEDULED", repository.ErrValidation)
}

// derivedAgendaEntry builds the MEETING agenda entry projected from an
// approved request: it starts at the confirmed time, spans the estimated
// duration and is never public.
func derivedAgendaEntry(req model.MeetingRequest, actorID uint64, requesterName string) model.ScheduleEntry {
	start := req.ConfirmedAt.UTC()
	notes := fmt.Sprintf("Requested by: %s", requesterName)
	requestID := req.ID
	return model.ScheduleEntry{
		Title:       fmt.Sprintf("Meeting — %s", req.Reason),
		EntryType:   model.EntryMeeting,
		StartsAt:    start,
		EndsAt:      start.Add(req.Duration()),
		IsPublic:    false,
		Notes:       &notes,
		CreatedBy:   actorID,
		RequestedBy: &requestID,
	}
}

// decisionNotification renders the notification type and message for a
// decided request.
func decisionNotification(req model.MeetingRequest) (string, string) {
	preview := previewText(req.Reason, reasonPreviewLimit)
	switch req.Status {
	case model.RequestApproved:
		return model.NotifRequestApproved,
			fmt.Sprintf("Your meeting request %q was approved", preview)
	case model.RequestRescheduled:
		return model.NotifRequestRescheduled,
			fmt.Sprintf("Your meeting request %q was rescheduled", preview)
	default:
		return model.NotifRequestRejected,
			fmt.Sprintf("Your meeting request %q was declined", preview)
	}
}
