// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package recommend

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: *DefaultConfig(), wantErr: false},
		{name: "zero max recommendations", cfg: Config{MaxRecommendations: 0}, wantErr: true},
		{name: "negative max users", cfg: Config{MaxRecommendations: 10, MaxUsers: -1}, wantErr: true},
		{name: "unlimited users", cfg: Config{MaxRecommendations: 10, MaxUsers: 0}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
