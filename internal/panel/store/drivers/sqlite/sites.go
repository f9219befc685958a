package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/domain"
)

type sitesRepo struct {
	db dbtx
}

const siteColumns = `id, client_id, site_name, site_url, hosting_provider, hosting_plan,
	expiry_date, status, admin_url, admin_username, admin_password,
	cpanel_url, cpanel_username, cpanel_password,
	webmail_url, webmail_email, webmail_password,
	nameservers, ftp_accounts, databases, notes, created_at, updated_at`

const siteColumnsQualified = `sites.id, sites.client_id, sites.site_name, sites.site_url,
	sites.hosting_provider, sites.hosting_plan,
	sites.expiry_date, sites.status, sites.admin_url, sites.admin_username, sites.admin_password,
	sites.cpanel_url, sites.cpanel_username, sites.cpanel_password,
	sites.webmail_url, sites.webmail_email, sites.webmail_password,
	sites.nameservers, sites.ftp_accounts, sites.databases, sites.notes, sites.created_at, sites.updated_at`

// Repeated credential sub-lists are stored as JSON blobs. SQLite has no
// array type and the lists are only ever read back whole.
func marshalJSONList(v any) (sql.NullString, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	if string(b) == "null" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalJSONList(ns sql.NullString, v any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), v)
}

func scanSite(row interface{ Scan(...any) error }) (domain.Site, error) {
	var s domain.Site
	var provider, plan, expiry, status sql.NullString
	var adminURL, adminUser, adminPass sql.NullString
	var cpURL, cpUser, cpPass sql.NullString
	var wmURL, wmEmail, wmPass sql.NullString
	var nameservers, ftpAccounts, databases, notes sql.NullString

	err := row.Scan(&s.ID, &s.ClientID, &s.SiteName, &s.SiteURL, &provider, &plan,
		&expiry, &status, &adminURL, &adminUser, &adminPass,
		&cpURL, &cpUser, &cpPass,
		&wmURL, &wmEmail, &wmPass,
		&nameservers, &ftpAccounts, &databases, &notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Site{}, err
	}

	s.HostingProvider = mapNullString(provider)
	s.HostingPlan = mapNullString(plan)
	s.ExpiryDate = mapNullString(expiry)
	s.Status = mapNullString(status)
	s.AdminURL = mapNullString(adminURL)
	s.AdminUsername = mapNullString(adminUser)
	s.AdminPassword = mapNullString(adminPass)
	s.CpanelURL = mapNullString(cpURL)
	s.CpanelUsername = mapNullString(cpUser)
	s.CpanelPassword = mapNullString(cpPass)
	s.WebmailURL = mapNullString(wmURL)
	s.WebmailEmail = mapNullString(wmEmail)
	s.WebmailPassword = mapNullString(wmPass)
	s.Notes = mapNullString(notes)

	if err := unmarshalJSONList(nameservers, &s.Nameservers); err != nil {
		return domain.Site{}, err
	}
	if err := unmarshalJSONList(ftpAccounts, &s.FTPAccounts); err != nil {
		return domain.Site{}, err
	}
	if err := unmarshalJSONList(databases, &s.Databases); err != nil {
		return domain.Site{}, err
	}
	return s, nil
}

func (r *sitesRepo) GetSiteByID(ctx context.Context, id string) (domain.Site, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE id = ?`, id)
	s, err := scanSite(row)
	return s, mapNotFound(err)
}

func (r *sitesRepo) ListSites(ctx context.Context, userID string) ([]domain.Site, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+siteColumnsQualified+`
		 FROM sites
		 JOIN clients ON clients.id = sites.client_id
		 WHERE clients.user_id = ?
		 ORDER BY sites.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectSites(rows)
}

func (r *sitesRepo) ListSitesByClient(ctx context.Context, clientID string) ([]domain.Site, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE client_id = ? ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	return collectSites(rows)
}

func collectSites(rows *sql.Rows) ([]domain.Site, error) {
	defer rows.Close()
	var out []domain.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sitesRepo) CreateSite(ctx context.Context, s domain.Site) error {
	nameservers, ftpAccounts, databases, err := marshalSiteLists(s)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sites (id, client_id, site_name, site_url, hosting_provider, hosting_plan,
			expiry_date, status, admin_url, admin_username, admin_password,
			cpanel_url, cpanel_username, cpanel_password,
			webmail_url, webmail_email, webmail_password,
			nameservers, ftp_accounts, databases, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.ClientID, s.SiteName, s.SiteURL,
		mapStringNull(s.HostingProvider), mapStringNull(s.HostingPlan),
		mapStringNull(s.ExpiryDate), mapStringNull(s.Status),
		mapStringNull(s.AdminURL), mapStringNull(s.AdminUsername), mapStringNull(s.AdminPassword),
		mapStringNull(s.CpanelURL), mapStringNull(s.CpanelUsername), mapStringNull(s.CpanelPassword),
		mapStringNull(s.WebmailURL), mapStringNull(s.WebmailEmail), mapStringNull(s.WebmailPassword),
		nameservers, ftpAccounts, databases, mapStringNull(s.Notes),
		s.CreatedAt, s.UpdatedAt)
	return mapConstraint(err)
}

func (r *sitesRepo) UpdateSite(ctx context.Context, s domain.Site) error {
	nameservers, ftpAccounts, databases, err := marshalSiteLists(s)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE sites SET site_name = ?, site_url = ?, hosting_provider = ?, hosting_plan = ?,
			expiry_date = ?, status = ?, admin_url = ?, admin_username = ?, admin_password = ?,
			cpanel_url = ?, cpanel_username = ?, cpanel_password = ?,
			webmail_url = ?, webmail_email = ?, webmail_password = ?,
			nameservers = ?, ftp_accounts = ?, databases = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		s.SiteName, s.SiteURL,
		mapStringNull(s.HostingProvider), mapStringNull(s.HostingPlan),
		mapStringNull(s.ExpiryDate), mapStringNull(s.Status),
		mapStringNull(s.AdminURL), mapStringNull(s.AdminUsername), mapStringNull(s.AdminPassword),
		mapStringNull(s.CpanelURL), mapStringNull(s.CpanelUsername), mapStringNull(s.CpanelPassword),
		mapStringNull(s.WebmailURL), mapStringNull(s.WebmailEmail), mapStringNull(s.WebmailPassword),
		nameservers, ftpAccounts, databases, mapStringNull(s.Notes),
		time.Now().UTC(), s.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *sitesRepo) DeleteSite(ctx context.Context, siteID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, siteID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func marshalSiteLists(s domain.Site) (nameservers, ftpAccounts, databases sql.NullString, err error) {
	if nameservers, err = marshalJSONList(s.Nameservers); err != nil {
		return
	}
	if ftpAccounts, err = marshalJSONList(s.FTPAccounts); err != nil {
		return
	}
	databases, err = marshalJSONList(s.Databases)
	return
}
