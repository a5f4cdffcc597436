// File: services/intelligence/extractor.go
package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"roomdesk/models"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// LLMExtractor implements Extractor with one structured completion per call.
type LLMExtractor struct {
	Completer Completer
	Logger    *zap.Logger
}

func NewLLMExtractor(completer Completer, logger *zap.Logger) *LLMExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMExtractor{Completer: completer, Logger: logger}
}

func (e *LLMExtractor) ExtractNeedsRooms(ctx context.Context, text, today string) (models.RoomNeed, error) {
	var need models.RoomNeed
	if err := e.complete(ctx, withToday(promptNeedsRooms, today), text, &need); err != nil {
		return models.RoomNeed{}, err
	}
	if need.NeedsRooms && need.RequestedRooms <= 0 {
		return models.RoomNeed{}, fmt.Errorf("%w: needs rooms without a room count", ErrExtractionFailed)
	}
	return need, nil
}

func (e *LLMExtractor) ExtractBookingConfirmation(ctx context.Context, text, today string) (models.BookingConfirmation, error) {
	var conf models.BookingConfirmation
	if err := e.complete(ctx, withToday(promptBookingConfirmation, today), text, &conf); err != nil {
		return models.BookingConfirmation{}, err
	}
	if conf.RequestedRooms < 0 {
		return models.BookingConfirmation{}, fmt.Errorf("%w: negative room count %d", ErrExtractionFailed, conf.RequestedRooms)
	}
	return conf, nil
}

// ExtractDate falls back to today when the model returns no date.
func (e *LLMExtractor) ExtractDate(ctx context.Context, text, today string) (string, error) {
	var out struct {
		Date string `json:"date"`
	}
	if err := e.complete(ctx, withToday(promptDate, today), text, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Date) == "" {
		return today, nil
	}
	return validDate(out.Date)
}

func (e *LLMExtractor) ExtractAdminCommand(ctx context.Context, text string) (models.AdminCommand, error) {
	var out struct {
		Category string `json:"category"`
	}
	if err := e.complete(ctx, promptAdminCommand, text, &out); err != nil {
		return "", err
	}
	category := strings.ToLower(strings.TrimSpace(out.Category))
	if category == "" {
		return "", fmt.Errorf("%w: empty category", ErrExtractionFailed)
	}
	return models.AdminCommand(category), nil
}

func (e *LLMExtractor) ExtractOverride(ctx context.Context, text, today string) (models.Override, error) {
	var out struct {
		Date  string `json:"date"`
		Rooms *int   `json:"number_of_rooms"`
	}
	if err := e.complete(ctx, withToday(promptOverride, today), text, &out); err != nil {
		return models.Override{}, err
	}
	if out.Rooms == nil {
		return models.Override{}, fmt.Errorf("%w: override without a room count", ErrExtractionFailed)
	}
	date := today
	if strings.TrimSpace(out.Date) != "" {
		var err error
		if date, err = validDate(out.Date); err != nil {
			return models.Override{}, err
		}
	}
	return models.Override{Date: date, Rooms: *out.Rooms}, nil
}

// ExtractOriginator reports false when the message carries no phone number.
func (e *LLMExtractor) ExtractOriginator(ctx context.Context, text string) (string, bool, error) {
	var out struct {
		PhoneNumber *string `json:"phone_number"`
	}
	if err := e.complete(ctx, promptOriginator, text, &out); err != nil {
		return "", false, err
	}
	if out.PhoneNumber == nil || strings.TrimSpace(*out.PhoneNumber) == "" {
		return "", false, nil
	}
	return strings.TrimSpace(*out.PhoneNumber), true, nil
}

func (e *LLMExtractor) complete(ctx context.Context, system, text string, v any) error {
	raw, err := e.Completer.Complete(ctx, system, text)
	if err != nil {
		e.Logger.Error("Completion failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	body, ok := jsonObject(raw)
	if !ok {
		e.Logger.Warn("No JSON object in completion", zap.String("raw", raw))
		return fmt.Errorf("%w: no JSON object in response", ErrExtractionFailed)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		e.Logger.Warn("Malformed completion", zap.String("raw", raw), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	e.Logger.Debug("Completion parsed", zap.String("raw", raw))
	return nil
}

// jsonObject cuts the outermost {...} out of the model text, which tolerates
// code fences and stray prose around the payload.
func jsonObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func withToday(prompt, today string) string {
	return prompt + "\n\nToday's date: " + today
}

func validDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("%w: invalid date %q", ErrExtractionFailed, s)
	}
	return s, nil
}
