package totp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Period is the TOTP time step in seconds.
const Period = 30

// skew is the number of adjacent time steps accepted on either side of the
// current one. One step absorbs client/server clock drift; widening it grows
// the brute-force window linearly, so it stays fixed.
const skew = 1

// Enrollment is a freshly generated TOTP secret plus its provisioning URI.
type Enrollment struct {
	Secret string // base32-encoded shared secret
	URL    string // otpauth:// URI for authenticator apps

	key *otp.Key
}

// Manager generates and verifies time-based one-time passwords.
type Manager struct {
	issuer string
}

func NewManager(issuer string) *Manager {
	return &Manager{issuer: issuer}
}

// Generate produces a fresh random secret labelled with the issuer and the
// given account name (typically the user's email).
func (m *Manager) Generate(account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      m.issuer,
		AccountName: account,
		Period:      Period,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp secret: %w", err)
	}
	return &Enrollment{Secret: key.Secret(), URL: key.URL(), key: key}, nil
}

// QRDataURI renders the provisioning URI as a PNG QR code wrapped in a
// data URI, ready to be embedded by a client.
func (e *Enrollment) QRDataURI(size int) (string, error) {
	img, err := e.key.Image(size, size)
	if err != nil {
		return "", fmt.Errorf("render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode qr png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Verify checks a submitted code against the stored base32 secret at the
// current time.
func (m *Manager) Verify(secret, code string) bool {
	return m.VerifyAt(secret, code, time.Now().UTC())
}

// VerifyAt checks a submitted code at an explicit time. Codes from the
// current step and one step on either side are accepted.
func (m *Manager) VerifyAt(secret, code string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    Period,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
