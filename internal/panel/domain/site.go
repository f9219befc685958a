package domain

import "time"

// FTPAccount is an FTP or SFTP credential attached to a site.
type FTPAccount struct {
	Host     string `json:"host"`
	Username string `json:"username"`
	Password string `json:"password"`
	Port     int    `json:"port,omitempty"`
}

// DatabaseAccount is a database credential attached to a site.
type DatabaseAccount struct {
	Host     string `json:"host"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Site is a managed website record with its hosting credentials.
type Site struct {
	ID              string            `json:"siteId"`
	ClientID        string            `json:"clientId"`
	SiteName        string            `json:"siteName"`
	SiteURL         string            `json:"siteUrl"`
	HostingProvider string            `json:"hostingProvider,omitempty"`
	HostingPlan     string            `json:"hostingPlan,omitempty"`
	ExpiryDate      string            `json:"expiryDate,omitempty"` // YYYY-MM-DD
	Status          string            `json:"status,omitempty"`
	AdminURL        string            `json:"adminUrl,omitempty"`
	AdminUsername   string            `json:"adminUsername,omitempty"`
	AdminPassword   string            `json:"adminPassword,omitempty"`
	CpanelURL       string            `json:"cpanelUrl,omitempty"`
	CpanelUsername  string            `json:"cpanelUsername,omitempty"`
	CpanelPassword  string            `json:"cpanelPassword,omitempty"`
	WebmailURL      string            `json:"webmailUrl,omitempty"`
	WebmailEmail    string            `json:"webmailEmail,omitempty"`
	WebmailPassword string            `json:"webmailPassword,omitempty"`
	Nameservers     []string          `json:"nameservers,omitempty"`
	FTPAccounts     []FTPAccount      `json:"ftpAccounts,omitempty"`
	Databases       []DatabaseAccount `json:"databases,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// SectionVisibility tells the UI which credential sections make sense for a
// site's hosting provider. Managed platforms hide the panels they do not have.
type SectionVisibility struct {
	AdminCpanel bool `json:"adminCpanel"`
	Webmail     bool `json:"webmail"`
	Nameservers bool `json:"nameservers"`
	FTP         bool `json:"ftp"`
	Database    bool `json:"database"`
}

// VisibleSections maps a hosting provider to its credential sections.
// An empty provider hides everything; unknown providers show everything.
func VisibleSections(provider string) SectionVisibility {
	if provider == "" {
		return SectionVisibility{}
	}

	vis := SectionVisibility{
		AdminCpanel: true,
		Webmail:     true,
		Nameservers: true,
		FTP:         true,
		Database:    true,
	}

	switch provider {
	case "aws", "digitalocean", "linode", "vultr", "cloudways":
		vis.AdminCpanel = false
		vis.Webmail = false
	case "hostinger":
		vis.AdminCpanel = false
	case "wpengine", "kinsta":
		vis.AdminCpanel = false
		vis.FTP = false
	case "flywheel":
		vis.AdminCpanel = false
	}

	return vis
}
