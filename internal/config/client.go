package config

import "github.com/handiism/hot100-history/internal/http"

// HTTPClient builds the dataset download client, authenticated with the
// Kaggle credentials when they are set.
func (s *Settings) HTTPClient() *http.Client {
	timeout, _ := parseDuration(s.DownloadTimeout)
	return http.NewClient(http.Options{
		Timeout:  timeout,
		Username: s.KaggleUsername,
		Password: s.KaggleKey,
	})
}
