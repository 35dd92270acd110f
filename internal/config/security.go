package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SecurityPolicy is the optional YAML file named by SECURITY_CONFIG.
//
//	security:
//	  auth:
//	    weak_passwords: ["hunter2"]
//	    admin_usernames: ["clerk"]
//	  jwt:
//	    expiry_hours: 12
type SecurityPolicy struct {
	Security struct {
		Auth struct {
			WeakPasswords  []string `yaml:"weak_passwords"`
			AdminUsernames []string `yaml:"admin_usernames"`
		} `yaml:"auth"`
		JWT struct {
			ExpiryHours int `yaml:"expiry_hours"`
		} `yaml:"jwt"`
	} `yaml:"security"`
}

// LoadSecurityPolicy reads and validates a policy file.
// The path comes from the operator's environment, not from request input.
func LoadSecurityPolicy(path string) (*SecurityPolicy, error) {
	// #nosec G304 -- path is provided by trusted source (environment), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read security policy: %w", err)
	}

	var policy SecurityPolicy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("failed to parse security policy: %w", err)
	}
	if err := validateSecurityPolicy(&policy); err != nil {
		return nil, fmt.Errorf("security policy validation failed: %w", err)
	}
	return &policy, nil
}

func validateSecurityPolicy(p *SecurityPolicy) error {
	if p.Security.JWT.ExpiryHours < 0 {
		return fmt.Errorf("jwt expiry_hours must not be negative")
	}
	if p.Security.JWT.ExpiryHours > 24*30 {
		return fmt.Errorf("jwt expiry_hours must be at most %d", 24*30)
	}
	for _, name := range p.Security.Auth.AdminUsernames {
		if name == "" {
			return fmt.Errorf("admin_usernames must not contain empty entries")
		}
	}
	for _, w := range p.Security.Auth.WeakPasswords {
		if w == "" {
			return fmt.Errorf("weak_passwords must not contain empty entries")
		}
	}
	return nil
}
