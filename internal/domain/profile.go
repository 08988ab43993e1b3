package domain

import "time"

// BusinessProfile holds the reusable seller details shown on every invoice.
// All fields are optional; the profile is keyed uniquely by user. Image
// fields hold either an inline data URL or a storage bucket URL.
type BusinessProfile struct {
	UserID         string `json:"user_id"`
	CompanyName    string `json:"company_name"`
	GSTNumber      string `json:"gst_number,omitempty"`
	BillingAddress string `json:"billing_address"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`

	BankName          string `json:"bank_name,omitempty"`
	BankAccountNumber string `json:"bank_account_number,omitempty"`
	BankIFSCCode      string `json:"bank_ifsc_code,omitempty"`
	BankBranch        string `json:"bank_branch,omitempty"`

	CompanyLogoURL string `json:"company_logo_url,omitempty"`
	UPIQRCodeURL   string `json:"upi_qr_code_url,omitempty"`
	SignatureURL   string `json:"signature_url,omitempty"`

	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// ProfileImageKind names the three image slots on a business profile.
type ProfileImageKind string

const (
	ProfileImageLogo      ProfileImageKind = "logo"
	ProfileImageUPIQR     ProfileImageKind = "upi_qr"
	ProfileImageSignature ProfileImageKind = "signature"
)

// ValidProfileImageKind reports whether kind names a known image slot.
func ValidProfileImageKind(kind string) bool {
	switch ProfileImageKind(kind) {
	case ProfileImageLogo, ProfileImageUPIQR, ProfileImageSignature:
		return true
	}
	return false
}

// SetImage stores url into the slot named by kind.
func (p *BusinessProfile) SetImage(kind ProfileImageKind, url string) {
	switch kind {
	case ProfileImageLogo:
		p.CompanyLogoURL = url
	case ProfileImageUPIQR:
		p.UPIQRCodeURL = url
	case ProfileImageSignature:
		p.SignatureURL = url
	}
}
