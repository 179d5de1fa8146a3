package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"tutoring-platform/internal/config"
	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/ports/adapter"
)

var _ adapter.MeetingScheduler = (*GoogleMeetScheduler)(nil)

const (
	tokenEndpoint    = "https://oauth2.googleapis.com/token"
	calendarEndpoint = "https://www.googleapis.com/calendar/v3"
	lessonDuration   = time.Hour
)

// GoogleMeetScheduler creates Calendar events with a Meet conference
// attached, authenticating through the OAuth2 refresh-token flow.
type GoogleMeetScheduler struct {
	cfg    config.CalendarConfig
	client *http.Client

	tokenURL string // overridable in tests
	apiURL   string
}

func NewGoogleMeetScheduler(cfg config.CalendarConfig) (*GoogleMeetScheduler, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("google calendar credentials incomplete")
	}
	return &GoogleMeetScheduler{
		cfg:      cfg,
		client:   &http.Client{Timeout: 15 * time.Second},
		tokenURL: tokenEndpoint,
		apiURL:   calendarEndpoint,
	}, nil
}

func (s *GoogleMeetScheduler) accessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {s.cfg.ClientID},
		"client_secret": {s.cfg.ClientSecret},
		"refresh_token": {s.cfg.RefreshToken},
		"grant_type":    {"refresh_token"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: google token http %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode token: %v", domain.ErrUpstreamUnavailable, err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: google token empty", domain.ErrUpstreamUnavailable)
	}
	return out.AccessToken, nil
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// buildTimes converts the slot's date and time into a one-hour event window.
func (s *GoogleMeetScheduler) buildTimes(date, timeSlot string) (eventTime, eventTime, error) {
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeSlot, loc)
	if err != nil {
		return eventTime{}, eventTime{}, domain.ErrInvalidArgument
	}
	end := start.Add(lessonDuration)
	return eventTime{DateTime: start.Format(time.RFC3339), TimeZone: s.cfg.Timezone},
		eventTime{DateTime: end.Format(time.RFC3339), TimeZone: s.cfg.Timezone}, nil
}

func (s *GoogleMeetScheduler) CreateMeeting(ctx context.Context, req adapter.MeetingRequest) (*adapter.Meeting, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	start, end, err := s.buildTimes(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	attendees := []map[string]string{{"email": req.StudentEmail}}
	if s.cfg.OwnerEmail != "" && s.cfg.OwnerEmail != req.StudentEmail {
		attendees = append(attendees, map[string]string{"email": s.cfg.OwnerEmail})
	}

	displayName := req.StudentName
	if displayName == "" {
		displayName = req.StudentEmail
	}

	payload := map[string]interface{}{
		"summary":     fmt.Sprintf("Clase de inglés - %s", displayName),
		"description": "Clase personalizada de 60 minutos.",
		"start":       start,
		"end":         end,
		"attendees":   attendees,
		"conferenceData": map[string]interface{}{
			"createRequest": map[string]interface{}{
				"requestId":             "meet-" + uuid.NewString(),
				"conferenceSolutionKey": map[string]string{"type": "hangoutsMeet"},
			},
		},
	}
	b, _ := json.Marshal(payload)

	eventsURL := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=1", s.apiURL, url.PathEscape(s.cfg.CalendarID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, eventsURL, strings.NewReader(string(b)))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: google event http %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var out struct {
		ID             string `json:"id"`
		HangoutLink    string `json:"hangoutLink"`
		ConferenceData struct {
			EntryPoints []struct {
				EntryPointType string `json:"entryPointType"`
				URI            string `json:"uri"`
			} `json:"entryPoints"`
		} `json:"conferenceData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode event: %v", domain.ErrUpstreamUnavailable, err)
	}

	joinLink := out.HangoutLink
	if joinLink == "" {
		for _, ep := range out.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				joinLink = ep.URI
				break
			}
		}
	}
	if joinLink == "" {
		return nil, fmt.Errorf("%w: event created without meet link", domain.ErrUpstreamUnavailable)
	}

	return &adapter.Meeting{EventID: out.ID, JoinLink: joinLink}, nil
}
