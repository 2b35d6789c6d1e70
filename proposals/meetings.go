package proposals

import (
	"context"
	"strings"

	"github.com/harperreed/pitch/models"
)

// Meetings lists recorded calls the notes can be drawn from. The service
// uses the Fireflies key stored on the profile.
func (s *Service) Meetings(ctx context.Context) ([]models.Meeting, error) {
	u, err := s.user()
	if err != nil {
		return nil, err
	}
	resp := s.gw.ListMeetings(ctx, u.ID)
	if !resp.Success || resp.Data == nil {
		return nil, &GatewayError{Op: "list meetings", Message: resp.Error}
	}
	return resp.Data.Meetings, nil
}

// Transcript fetches one meeting's transcript, for use as discovery notes.
func (s *Service) Transcript(ctx context.Context, meetingID string) (string, error) {
	if strings.TrimSpace(meetingID) == "" {
		return "", &ValidationError{Field: "meeting_id", Message: "Meeting id is required"}
	}
	u, err := s.user()
	if err != nil {
		return "", err
	}

	resp := s.gw.GetTranscript(ctx, u.ID, meetingID)
	if !resp.Success || resp.Data == nil {
		return "", &GatewayError{Op: "get transcript", Message: resp.Error}
	}
	return resp.Data.Transcript, nil
}
