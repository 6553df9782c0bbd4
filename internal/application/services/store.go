package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/jsimpson73/test-med-app/internal/catalog"
	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	"github.com/jsimpson73/test-med-app/internal/infrastructure/observability"
	apperrors "github.com/jsimpson73/test-med-app/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// SessionUserKey holds the logged-in user's record, without password.
const SessionUserKey = "stayhealthy_user"

// DoctorLookup resolves doctors for slot queries.
type DoctorLookup interface {
	Doctor(ctx context.Context, id int) (*entities.Doctor, error)
}

// StoreDeps are the collaborators of one session's Store.
type StoreDeps struct {
	SessionID string
	// KV holds this session's durable record; callers namespace it per session.
	KV       providers.KeyValueStore
	Accounts *AccountDirectory
	Doctors  DoctorLookup
	IDs      providers.IDGenerator
	Clock    providers.Clock
	// Events is optional.
	Events  providers.EventBus
	Metrics *observability.Metrics
}

// Store is the session and booking store for a single client session. It
// owns the current user, the appointment list, the notification log and the
// in-session reviews. Only identity is durable.
type Store struct {
	deps StoreDeps

	mu            sync.Mutex
	user          *entities.User
	appointments  []entities.Appointment
	notifications []entities.Notification
	reviews       []entities.Review
}

// NewStore creates an anonymous store. Call Restore to pick up a persisted session.
func NewStore(deps StoreDeps) *Store {
	if deps.Clock == nil {
		deps.Clock = providers.SystemClock
	}
	if deps.IDs == nil {
		deps.IDs = NewSequenceGenerator(deps.Clock)
	}
	return &Store{
		deps:    deps,
		reviews: catalog.SeedReviews(),
	}
}

// SessionID returns the id this store was created for
func (s *Store) SessionID() string {
	return s.deps.SessionID
}

// Restore loads the persisted session record, if any. Appointments and
// notifications are never restored.
func (s *Store) Restore(ctx context.Context) error {
	raw, err := s.deps.KV.Get(ctx, SessionUserKey)
	if errors.Is(err, providers.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.NewInternalError("failed to read session record", err)
	}

	var u entities.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return apperrors.NewInternalError("failed to decode session record", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	return nil
}

// Register validates the candidate, appends it to the registry and logs the
// new account in.
func (s *Store) Register(ctx context.Context, reg entities.Registration) (*entities.User, error) {
	ctx, span := observability.StartSpan(ctx, "Store.Register")
	defer span.End()

	if fields := ValidateRegistration(reg); len(fields) > 0 {
		err := apperrors.NewFieldValidationError("invalid registration", fields)
		observability.RecordError(span, err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	taken, err := s.deps.Accounts.EmailTaken(ctx, reg.Email)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if taken {
		return nil, apperrors.NewDuplicateAccountError()
	}

	role := entities.RolePatient
	if parsed, err := entities.ParseRole(string(reg.Role)); err == nil {
		role = parsed
	}
	now := s.deps.Clock.Now().UTC()
	account := entities.User{
		ID:        uuid.New().String(),
		Name:      reg.Name,
		Email:     reg.Email,
		Phone:     reg.Phone,
		Role:      role,
		Password:  reg.Password,
		CreatedAt: &now,
	}

	if err := s.deps.Accounts.Registry().Add(ctx, account); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	session := account.WithoutPassword()
	if err := s.persistUser(ctx, session); err != nil {
		observability.RecordError(span, err)
		if rbErr := s.deps.Accounts.Registry().Remove(ctx, account.Email); rbErr != nil {
			observability.SessionLogger(ctx, s.deps.SessionID).Error().Err(rbErr).
				Msg("failed to roll back registry entry")
		}
		return nil, err
	}
	s.user = &session

	observability.SessionLogger(ctx, s.deps.SessionID).Info().
		Str("user_id", session.ID).
		Str("role", string(session.Role)).
		Msg("account registered")

	out := session
	return &out, nil
}

// Login authenticates against the seed accounts and the registry.
func (s *Store) Login(ctx context.Context, email, password string) (*entities.User, error) {
	ctx, span := observability.StartSpan(ctx, "Store.Login")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.deps.Accounts.Authenticate(ctx, email, password)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if account == nil {
		observability.SessionLogger(ctx, s.deps.SessionID).Info().Msg("login rejected")
		return nil, apperrors.NewInvalidCredentialsError()
	}

	session := account.WithoutPassword()
	now := s.deps.Clock.Now().UTC()
	session.LastLogin = &now

	if err := s.persistUser(ctx, session); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	s.user = &session

	observability.SessionLogger(ctx, s.deps.SessionID).Info().
		Str("user_id", session.ID).
		Msg("logged in")

	out := session
	return &out, nil
}

// Logout clears the session user, appointments, notifications and the
// reviews added during the session.
func (s *Store) Logout(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, "Store.Logout")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deps.KV.Delete(ctx, SessionUserKey); err != nil {
		err = apperrors.NewInternalError("failed to clear session record", err)
		observability.RecordError(span, err)
		return err
	}

	s.user = nil
	s.appointments = nil
	s.notifications = nil
	s.reviews = catalog.SeedReviews()
	return nil
}

// UpdateProfile merges the mutable profile fields into the current user.
// Registered accounts are mirrored into the registry.
func (s *Store) UpdateProfile(ctx context.Context, update entities.ProfileUpdate) (*entities.User, error) {
	ctx, span := observability.StartSpan(ctx, "Store.UpdateProfile")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, apperrors.NewNotAuthenticatedError()
	}
	if err := validateProfileUpdate(update); err != nil {
		return nil, err
	}

	merged := *s.user
	update.Apply(&merged)

	var previous *entities.User
	registry := s.deps.Accounts.Registry()
	if !s.deps.Accounts.IsSeeded(merged.Email) {
		record, err := registry.FindByEmail(ctx, merged.Email)
		if err != nil {
			observability.RecordError(span, err)
			return nil, err
		}
		if record != nil {
			before := *record
			update.Apply(record)
			if err := registry.Update(ctx, *record); err != nil {
				observability.RecordError(span, err)
				return nil, err
			}
			previous = &before
		}
	}

	if err := s.persistUser(ctx, merged); err != nil {
		observability.RecordError(span, err)
		if previous != nil {
			if rbErr := registry.Update(ctx, *previous); rbErr != nil {
				observability.SessionLogger(ctx, s.deps.SessionID).Error().Err(rbErr).
					Msg("failed to roll back registry profile")
			}
		}
		return nil, err
	}
	s.user = &merged

	out := merged
	return &out, nil
}

// AddAppointment books a slot and appends a success notification.
func (s *Store) AddAppointment(ctx context.Context, req entities.AppointmentRequest) (*entities.Appointment, error) {
	return s.book(ctx, req, entities.AppointmentTypeScheduled)
}

// BookInstant books an instant consultation for today.
func (s *Store) BookInstant(ctx context.Context, req entities.AppointmentRequest) (*entities.Appointment, error) {
	req.Date = s.deps.Clock.Now().Format(entities.DateLayout)
	req.Time = entities.InstantSlot
	return s.book(ctx, req, entities.AppointmentTypeInstant)
}

func (s *Store) book(ctx context.Context, req entities.AppointmentRequest, kind entities.AppointmentType) (*entities.Appointment, error) {
	ctx, span := observability.StartSpan(ctx, "Store.AddAppointment")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, apperrors.NewNotAuthenticatedError()
	}
	if err := validateAppointmentRequest(req); err != nil {
		return nil, err
	}

	appt := entities.Appointment{
		ID:           s.deps.IDs.NextID(),
		DoctorID:     req.DoctorID,
		DoctorName:   req.DoctorName,
		Specialty:    req.Specialty,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		Date:         req.Date,
		Time:         req.Time,
		Type:         kind,
		Status:       entities.AppointmentStatusBooked,
		CreatedAt:    s.deps.Clock.Now().UTC(),
	}
	s.appointments = append(s.appointments, appt)

	observability.SetSpanAttributes(span,
		attribute.Int64("appointment.id", appt.ID),
		attribute.Int("doctor.id", appt.DoctorID),
		attribute.String("appointment.type", string(kind)),
	)
	observability.RecordBooking(ctx, s.deps.Metrics, string(kind))

	s.notify(ctx, entities.NotificationSuccess, fmt.Sprintf(
		"Appointment booked successfully with %s on %s at %s",
		appt.DoctorName, appt.Date, appt.Time,
	))

	out := appt
	return &out, nil
}

// CancelAppointment removes the appointment with id and appends an info
// notification. An unknown id changes nothing.
func (s *Store) CancelAppointment(ctx context.Context, id int64) (*entities.Appointment, error) {
	ctx, span := observability.StartSpan(ctx, "Store.CancelAppointment")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, a := range s.appointments {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment %d not found", id))
	}

	removed := s.appointments[idx]
	s.appointments = append(s.appointments[:idx:idx], s.appointments[idx+1:]...)

	s.notify(ctx, entities.NotificationInfo, fmt.Sprintf("Appointment with %s cancelled", removed.DoctorName))
	return &removed, nil
}

// AddReview records a review in the session list. Reviews are not durable.
func (s *Store) AddReview(ctx context.Context, req entities.ReviewRequest) (*entities.Review, error) {
	ctx, span := observability.StartSpan(ctx, "Store.AddReview")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, apperrors.NewNotAuthenticatedError()
	}
	if req.Rating == 0 {
		return nil, apperrors.NewFieldValidationError("invalid review", map[string]string{"rating": "Please select a rating"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.NewFieldValidationError("invalid review", map[string]string{"rating": "Rating must be between 1 and 5"})
	}
	if s.hasReviewed(req.AppointmentID) {
		return nil, apperrors.NewFieldValidationError("invalid review", map[string]string{"appointment_id": "This appointment has already been reviewed"})
	}
	if len([]rune(req.Comment)) > entities.MaxReviewCommentLength {
		observability.SessionLogger(ctx, s.deps.SessionID).Debug().
			Int("length", len([]rune(req.Comment))).
			Msg("review comment exceeds soft cap")
	}

	now := s.deps.Clock.Now()
	review := entities.Review{
		ID:            s.deps.IDs.NextID(),
		AppointmentID: req.AppointmentID,
		PatientName:   s.user.Name,
		PatientEmail:  s.user.Email,
		Rating:        req.Rating,
		Comment:       req.Comment,
		Date:          now.Format(entities.DateLayout),
		CreatedAt:     now.UTC(),
	}
	for _, a := range s.appointments {
		if a.ID == req.AppointmentID {
			review.DoctorID = a.DoctorID
			review.DoctorName = a.DoctorName
			break
		}
	}
	s.reviews = append(s.reviews, review)

	out := review
	return &out, nil
}

// Reviews returns the seed reviews followed by the session's reviews
func (s *Store) Reviews() []entities.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

// HasReviewed reports whether appointmentID already has a review
func (s *Store) HasReviewed(appointmentID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasReviewed(appointmentID)
}

func (s *Store) hasReviewed(appointmentID int64) bool {
	for _, r := range s.reviews {
		if r.AppointmentID == appointmentID {
			return true
		}
	}
	return false
}

// ReviewSummary computes the overall average, star distribution (5 down to 1)
// and per-doctor averages. Averages are rounded to one decimal.
func (s *Store) ReviewSummary() entities.ReviewSummary {
	reviews := s.Reviews()

	summary := entities.ReviewSummary{
		Total:          len(reviews),
		DoctorAverages: map[int]float64{},
	}

	sum := 0
	counts := map[int]int{}
	doctorSums := map[int]int{}
	doctorCounts := map[int]int{}
	for _, r := range reviews {
		sum += r.Rating
		counts[r.Rating]++
		if r.DoctorID != 0 {
			doctorSums[r.DoctorID] += r.Rating
			doctorCounts[r.DoctorID]++
		}
	}

	if len(reviews) > 0 {
		summary.Average = roundOneDecimal(float64(sum) / float64(len(reviews)))
	}
	for stars := 5; stars >= 1; stars-- {
		bucket := entities.RatingBucket{Stars: stars, Count: counts[stars]}
		if len(reviews) > 0 {
			bucket.Percentage = float64(counts[stars]) / float64(len(reviews)) * 100
		}
		summary.Distribution = append(summary.Distribution, bucket)
	}
	for id, n := range doctorCounts {
		summary.DoctorAverages[id] = roundOneDecimal(float64(doctorSums[id]) / float64(n))
	}
	return summary
}

// AvailableSlots returns the doctor's slots minus those booked in this
// session for the same doctor on date.
func (s *Store) AvailableSlots(ctx context.Context, doctorID int, date string) ([]string, error) {
	doctor, err := s.deps.Doctors.Doctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(doctor.Availability))
	for _, slot := range doctor.Availability {
		taken := false
		for _, a := range s.appointments {
			if a.Occupies(doctorID, date, slot) {
				taken = true
				break
			}
		}
		if !taken {
			out = append(out, slot)
		}
	}
	return out, nil
}

// Appointments returns a snapshot of the session's appointments
func (s *Store) Appointments() []entities.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}

// Notifications returns a snapshot of the notification log
func (s *Store) Notifications() []entities.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// ClearNotifications empties the notification log
func (s *Store) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}

// CurrentUser returns a copy of the session user, or nil when anonymous
func (s *Store) CurrentUser() *entities.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// notify appends to the log and publishes on the session channel. Callers hold mu.
func (s *Store) notify(ctx context.Context, kind entities.NotificationKind, message string) {
	n := entities.Notification{
		ID:        s.deps.IDs.NextID(),
		Kind:      kind,
		Message:   message,
		Timestamp: s.deps.Clock.Now().UTC(),
	}
	s.notifications = append(s.notifications, n)

	if s.deps.Events == nil {
		return
	}
	event := &entities.NotificationEvent{SessionID: s.deps.SessionID, Notification: n}
	if err := s.deps.Events.Publish(ctx, providers.GetSessionChannel(s.deps.SessionID), event); err != nil {
		observability.SessionLogger(ctx, s.deps.SessionID).Warn().Err(err).Msg("failed to publish notification")
	}
}

func (s *Store) persistUser(ctx context.Context, u entities.User) error {
	u.Password = ""
	raw, err := json.Marshal(u)
	if err != nil {
		return apperrors.NewInternalError("failed to encode session record", err)
	}
	if err := s.deps.KV.Set(ctx, SessionUserKey, raw); err != nil {
		return apperrors.NewInternalError("failed to write session record", err)
	}
	return nil
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
