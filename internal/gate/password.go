package gate

import (
	"regexp"
	"time"

	"mechanical-burger/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// PasswordType names which password an override replaces.
type PasswordType string

const (
	PasswordAdmin    PasswordType = "admin"
	PasswordAdvanced PasswordType = "advanced"
)

var passwordFormat = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]{6,50}$`)

// PasswordChange is a request to override one of the gate passwords for the
// calling client.
type PasswordChange struct {
	GlobalKey       string       `json:"globalKey"`
	NewPassword     string       `json:"newPassword"`
	ConfirmPassword string       `json:"confirmPassword"`
	PasswordType    PasswordType `json:"passwordType"`
}

// PasswordStatus reports which overrides a client has. Passwords are never
// returned.
type PasswordStatus struct {
	AdminChanged      bool       `json:"adminChanged"`
	AdvancedChanged   bool       `json:"advancedChanged"`
	AdminChangedAt    *time.Time `json:"adminChangedAt,omitempty"`
	AdvancedChangedAt *time.Time `json:"advancedChangedAt,omitempty"`
}

type override struct {
	hash      []byte
	changedAt time.Time
}

type overrides struct {
	admin    *override
	advanced *override
}

func (o *overrides) get(t PasswordType) *override {
	if t == PasswordAdmin {
		return o.admin
	}
	return o.advanced
}

// ChangePassword validates the request and stores a hashed override that
// applies to clientID only.
func (g *Gate) ChangePassword(clientID string, req PasswordChange) error {
	if clientID == "" {
		return model.ErrMissingClientID
	}
	if !equal(g.cfg.GlobalKey, req.GlobalKey) {
		g.logger.Warn().Str("client_id", clientID).Msg("password change with invalid global key")
		return model.ErrInvalidGlobalKey
	}
	if req.PasswordType != PasswordAdmin && req.PasswordType != PasswordAdvanced {
		return model.ErrInvalidPasswordType
	}
	if !passwordFormat.MatchString(req.NewPassword) {
		return model.ErrInvalidPasswordFormat
	}
	if req.NewPassword != req.ConfirmPassword {
		return model.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	o, ok := g.overrides[clientID]
	if !ok {
		o = &overrides{}
		g.overrides[clientID] = o
	}
	entry := &override{hash: hash, changedAt: g.now()}
	if req.PasswordType == PasswordAdmin {
		o.admin = entry
	} else {
		o.advanced = entry
	}

	g.logger.Info().
		Str("client_id", clientID).
		Str("password_type", string(req.PasswordType)).
		Msg("password override stored")

	return nil
}

// PasswordStatus reports the overrides held for clientID.
func (g *Gate) PasswordStatus(clientID string) PasswordStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var status PasswordStatus
	o, ok := g.overrides[clientID]
	if !ok {
		return status
	}
	if o.admin != nil {
		at := o.admin.changedAt
		status.AdminChanged, status.AdminChangedAt = true, &at
	}
	if o.advanced != nil {
		at := o.advanced.changedAt
		status.AdvancedChanged, status.AdvancedChangedAt = true, &at
	}
	return status
}

// ResetPasswords drops every override for clientID.
func (g *Gate) ResetPasswords(clientID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.overrides, clientID)
}

// checkPassword compares against the client's override when there is one,
// otherwise against fallback.
func (g *Gate) checkPassword(clientID string, t PasswordType, password, fallback string) bool {
	g.mu.RLock()
	var entry *override
	if o, ok := g.overrides[clientID]; ok && clientID != "" {
		entry = o.get(t)
	}
	g.mu.RUnlock()

	if entry != nil {
		return bcrypt.CompareHashAndPassword(entry.hash, []byte(password)) == nil
	}
	return equal(fallback, password)
}
