package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisibleSections(t *testing.T) {
	t.Parallel()

	all := SectionVisibility{AdminCpanel: true, Webmail: true, Nameservers: true, FTP: true, Database: true}

	tests := []struct {
		provider string
		want     SectionVisibility
	}{
		{"", SectionVisibility{}},
		{"aws", SectionVisibility{AdminCpanel: false, Webmail: false, Nameservers: true, FTP: true, Database: true}},
		{"digitalocean", SectionVisibility{Nameservers: true, FTP: true, Database: true}},
		{"linode", SectionVisibility{Nameservers: true, FTP: true, Database: true}},
		{"vultr", SectionVisibility{Nameservers: true, FTP: true, Database: true}},
		{"cloudways", SectionVisibility{Nameservers: true, FTP: true, Database: true}},
		{"hostinger", SectionVisibility{Webmail: true, Nameservers: true, FTP: true, Database: true}},
		{"wpengine", SectionVisibility{Webmail: true, Nameservers: true, Database: true}},
		{"kinsta", SectionVisibility{Webmail: true, Nameservers: true, Database: true}},
		{"flywheel", SectionVisibility{Webmail: true, Nameservers: true, FTP: true, Database: true}},
		{"other-host", all},
	}

	for _, tc := range tests {
		t.Run("provider "+tc.provider, func(t *testing.T) {
			require.Equal(t, tc.want, VisibleSections(tc.provider))
		})
	}
}
