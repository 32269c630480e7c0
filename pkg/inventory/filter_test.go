package inventory

import (
	"testing"
)

func TestExcludeAttributes(t *testing.T) {
	vars := HostVars{
		"ip":           "10.10.1.11",
		"ansible_host": "10.10.1.11",
		"api_token":    "XYZ",
		"token_expiry": "2026-01-01",
		"bmc_password": "secret",
		"mac":          "aa:bb:cc:11:22:33",
		"system_type":  "proxmox",
		"token":        "raw",
	}

	tests := []struct {
		name     string
		patterns []string
		wantKeys []string
	}{
		{
			name:     "exact match",
			patterns: []string{"token"},
			wantKeys: []string{"ip", "ansible_host", "api_token", "token_expiry", "bmc_password", "mac", "system_type"},
		},
		{
			name:     "prefix wildcard",
			patterns: []string{"token*"},
			wantKeys: []string{"ip", "ansible_host", "api_token", "bmc_password", "mac", "system_type"},
		},
		{
			name:     "suffix wildcard",
			patterns: []string{"*token"},
			wantKeys: []string{"ip", "ansible_host", "token_expiry", "bmc_password", "mac", "system_type"},
		},
		{
			name:     "contains wildcard",
			patterns: []string{"*token*"},
			wantKeys: []string{"ip", "ansible_host", "bmc_password", "mac", "system_type"},
		},
		{
			name:     "multiple patterns",
			patterns: []string{"*token*", "*password"},
			wantKeys: []string{"ip", "ansible_host", "mac", "system_type"},
		},
		{
			name:     "no patterns",
			patterns: nil,
			wantKeys: []string{"ip", "ansible_host", "api_token", "token_expiry", "bmc_password", "mac", "system_type", "token"},
		},
		{
			name:     "wildcard in the middle matches nothing",
			patterns: []string{"api*token"},
			wantKeys: []string{"ip", "ansible_host", "api_token", "token_expiry", "bmc_password", "mac", "system_type", "token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExcludeAttributes(vars, tt.patterns)

			if len(result) != len(tt.wantKeys) {
				t.Errorf("ExcludeAttributes() returned %d keys, want %d", len(result), len(tt.wantKeys))
			}

			for _, k := range tt.wantKeys {
				if _, ok := result[k]; !ok {
					t.Errorf("ExcludeAttributes() missing expected key %q", k)
				}
			}
		})
	}

	// input is never mutated
	if len(vars) != 8 {
		t.Errorf("input map was modified, has %d keys", len(vars))
	}
}
