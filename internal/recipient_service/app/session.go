package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aradsms/recipient_intake/internal/recipient_service/domain"
	"github.com/aradsms/recipient_intake/internal/recipient_service/registry"
)

// Tariff prices message segments. Amounts are in the smallest currency unit.
type Tariff struct {
	PricePerSegment int64  `json:"price_per_segment"`
	Currency        string `json:"currency"`
}

// E164Formatter turns a valid registry number into its international form.
type E164Formatter interface {
	ToE164(number string) (string, error)
}

// SendRequest is what a session hands to the messaging backend.
type SendRequest struct {
	SenderID   string   `json:"sender_id" validate:"required,max=20"`
	Content    string   `json:"content" validate:"required"`
	Recipients []string `json:"recipients" validate:"required,min=1,dive,e164"`
	Segments   int      `json:"segments" validate:"min=1"`
}

// Dispatcher is the seam to whatever actually delivers messages.
type Dispatcher interface {
	Dispatch(ctx context.Context, req SendRequest) (batchID string, err error)
}

// Summary is the composition overview shown before sending. Only valid
// recipients are charged.
type Summary struct {
	Recipients           int      `json:"recipients"`
	Valid                int      `json:"valid"`
	Invalid              int      `json:"invalid"`
	Encoding             Encoding `json:"encoding"`
	Characters           int      `json:"characters"`
	SegmentsPerRecipient int      `json:"segments_per_recipient"`
	TotalSegments        int      `json:"total_segments"`
	Cost                 int64    `json:"cost"`
	Currency             string   `json:"currency"`
	Balance              int64    `json:"balance"`
	BalanceAfter         int64    `json:"balance_after"`
	Sufficient           bool     `json:"sufficient"`
}

// SendResult reports an accepted dispatch.
type SendResult struct {
	BatchID    string `json:"batch_id"`
	Recipients int    `json:"recipients"`
	Segments   int    `json:"total_segments"`
	Cost       int64  `json:"cost"`
	Balance    int64  `json:"balance"`
}

// Session ties a recipient registry to the message being composed.
type Session struct {
	registry  *registry.Registry
	formatter E164Formatter
	validate  *validator.Validate
	tariff    Tariff
	balance   int64
	logger    *slog.Logger

	senderID string
	content  string
}

// NewSession creates a composition session over reg with a simulated balance.
func NewSession(reg *registry.Registry, formatter E164Formatter, tariff Tariff, balance int64, logger *slog.Logger) *Session {
	return &Session{
		registry:  reg,
		formatter: formatter,
		validate:  validator.New(),
		tariff:    tariff,
		balance:   balance,
		logger:    logger.With("component", "compose_session"),
	}
}

// Registry returns the recipients being composed for.
func (s *Session) Registry() *registry.Registry {
	return s.registry
}

// SetSender sets the sender ID shown to recipients.
func (s *Session) SetSender(senderID string) {
	s.senderID = strings.TrimSpace(senderID)
}

// SetContent sets the message body.
func (s *Session) SetContent(content string) {
	s.content = content
}

// Balance returns the remaining simulated balance.
func (s *Session) Balance() int64 {
	return s.balance
}

// Summary recomputes counts and cost from the current entries and content.
func (s *Session) Summary() Summary {
	seg := CountSegments(s.content)
	valid := s.registry.ValidCount()
	total := seg.Segments * valid
	cost := int64(total) * s.tariff.PricePerSegment
	return Summary{
		Recipients:           s.registry.Len(),
		Valid:                valid,
		Invalid:              s.registry.InvalidCount(),
		Encoding:             seg.Encoding,
		Characters:           seg.Characters,
		SegmentsPerRecipient: seg.Segments,
		TotalSegments:        total,
		Cost:                 cost,
		Currency:             s.tariff.Currency,
		Balance:              s.balance,
		BalanceAfter:         s.balance - cost,
		Sufficient:           cost <= s.balance,
	}
}

// BuildSendRequest collects the valid entries in E.164 form. Entries that
// format to the same international number are sent once.
func (s *Session) BuildSendRequest() (SendRequest, error) {
	req := SendRequest{
		SenderID: s.senderID,
		Content:  s.content,
		Segments: CountSegments(s.content).Segments,
	}

	seen := make(map[string]struct{})
	for _, e := range s.registry.Entries() {
		if !e.IsValid {
			continue
		}
		number, err := s.formatter.ToE164(e.PhoneNumber)
		if err != nil {
			s.logger.Warn("Skipping recipient that cannot be formatted", "entry_id", e.ID, "phone_number", e.PhoneNumber, "error", err)
			continue
		}
		if _, dup := seen[number]; dup {
			continue
		}
		seen[number] = struct{}{}
		req.Recipients = append(req.Recipients, number)
	}

	if len(req.Recipients) == 0 {
		return SendRequest{}, domain.ErrNoValidRecipients
	}
	if err := s.validate.Struct(req); err != nil {
		return SendRequest{}, fmt.Errorf("invalid send request: %w", err)
	}
	return req, nil
}

// Send builds the request, checks the simulated balance and hands the request
// to d. The balance is charged only when the dispatcher accepts.
func (s *Session) Send(ctx context.Context, d Dispatcher) (*SendResult, error) {
	req, err := s.BuildSendRequest()
	if err != nil {
		if errors.Is(err, domain.ErrNoValidRecipients) {
			sendRequestsCounter.WithLabelValues("no_recipients").Inc()
		} else {
			sendRequestsCounter.WithLabelValues("invalid_request").Inc()
		}
		return nil, err
	}

	totalSegments := req.Segments * len(req.Recipients)
	cost := int64(totalSegments) * s.tariff.PricePerSegment
	if cost > s.balance {
		sendRequestsCounter.WithLabelValues("insufficient_balance").Inc()
		s.logger.WarnContext(ctx, "Insufficient balance for send", "cost", cost, "balance", s.balance)
		return nil, fmt.Errorf("%w: cost %d %s exceeds balance %d", domain.ErrInsufficientBalance, cost, s.tariff.Currency, s.balance)
	}

	batchID, err := d.Dispatch(ctx, req)
	if err != nil {
		sendRequestsCounter.WithLabelValues("dispatch_error").Inc()
		s.logger.ErrorContext(ctx, "Dispatcher rejected send request", "recipients", len(req.Recipients), "error", err)
		return nil, fmt.Errorf("dispatching send request: %w", err)
	}

	s.balance -= cost
	sendRequestsCounter.WithLabelValues("success").Inc()
	sentSegmentsCounter.Add(float64(totalSegments))
	s.logger.InfoContext(ctx, "Send request dispatched", "batch_id", batchID,
		"recipients", len(req.Recipients), "total_segments", totalSegments, "cost", cost)
	return &SendResult{
		BatchID:    batchID,
		Recipients: len(req.Recipients),
		Segments:   totalSegments,
		Cost:       cost,
		Balance:    s.balance,
	}, nil
}
