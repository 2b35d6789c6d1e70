package proposals

import (
	"context"
	"strings"
)

// SettingsInput is the profile form. Empty optional fields clear the stored value.
type SettingsInput struct {
	FullName             string
	FirefliesAPIKey      string
	DefaultSignatureName string
}

// UpdateSettings writes the profile row and reloads the session's copy.
func (s *Service) UpdateSettings(ctx context.Context, in SettingsInput) error {
	u, err := s.user()
	if err != nil {
		return err
	}

	updated := *u
	updated.Name = strings.TrimSpace(in.FullName)
	updated.FirefliesAPIKey = strings.TrimSpace(in.FirefliesAPIKey)
	updated.DefaultSignatureName = strings.TrimSpace(in.DefaultSignatureName)

	if err := s.repo.UpdateUser(ctx, &updated); err != nil {
		s.logger.Error("failed to update settings", "user_id", u.ID, "err", err)
		return err
	}
	if err := s.session.Refresh(ctx); err != nil {
		s.logger.Warn("settings saved but profile reload failed", "err", err)
	}
	return nil
}

// CurrentSettings prefills the form from the signed-in profile.
func (s *Service) CurrentSettings() (SettingsInput, error) {
	u, err := s.user()
	if err != nil {
		return SettingsInput{}, err
	}
	return SettingsInput{
		FullName:             u.Name,
		FirefliesAPIKey:      u.FirefliesAPIKey,
		DefaultSignatureName: u.DefaultSignatureName,
	}, nil
}
