// Package store provides a SQLite-backed cache for decoded datasets.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/adpulse/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const dateLayout = "2006-01-02"

// ErrNotCached is returned by LoadDataset for a path with no stored dataset.
var ErrNotCached = errors.New("dataset not cached")

// Cache provides SQLite-backed dataset caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if err := upgrade(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("upgrading schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// upgrade forgets tracked files written under an older schema so their
// datasets are decoded again with every table filled.
func upgrade(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version >= schemaVersion {
		return nil
	}
	if _, err := db.Exec("DELETE FROM file_tracker"); err != nil {
		return err
	}
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// Matches reports whether a stat result still describes the tracked file.
func (fi FileInfo) Matches(info os.FileInfo) bool {
	return fi.MtimeNs == info.ModTime().UnixNano() && fi.SizeBytes == info.Size()
}

// GetTrackedFile returns the tracking entry for path. ok is false when the
// file has never been cached.
func (c *Cache) GetTrackedFile(path string) (fi FileInfo, ok bool, err error) {
	err = c.db.QueryRow("SELECT mtime_ns, size_bytes FROM file_tracker WHERE file_path = ?", path).
		Scan(&fi.MtimeNs, &fi.SizeBytes)
	if errors.Is(err, sql.ErrNoRows) {
		return FileInfo{}, false, nil
	}
	if err != nil {
		return FileInfo{}, false, err
	}
	return fi, true, nil
}

// SaveDataset replaces the stored dataset for path and its file tracking info.
func (c *Cache) SaveDataset(path, revision string, ds *model.Dataset, fi FileInfo) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range childTables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE source_path = ?", path); err != nil {
			return err
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO datasets (source_path, revision, saved_at)
		VALUES (?, ?, ?)`, path, revision, now)
	if err != nil {
		return err
	}

	for _, id := range ds.CountryIDs() {
		cd := ds.Countries[id]
		for i, p := range cd.Historical {
			_, err = tx.Exec(`INSERT INTO series_points
				(source_path, country, idx, period, new_users, revenue, cpa, ltv,
				 subscription_share, total_active_users, subscribed_users)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				path, string(id), i, p.Period.Format(dateLayout), p.NewUsers,
				p.Revenue, p.CPA, p.LTV, p.SubscriptionShare, p.TotalActiveUsers, p.SubscribedUsers,
			)
			if err != nil {
				return err
			}
		}
		for m, t := range cd.Targets {
			_, err = tx.Exec(`INSERT INTO metric_targets (source_path, country, metric, target, forecast)
				VALUES (?, ?, ?, ?, ?)`, path, string(id), m.Key(), t.Target, t.Forecast)
			if err != nil {
				return err
			}
		}
	}

	for i, cp := range ds.Campaigns {
		_, err = tx.Exec(`INSERT INTO campaigns
			(source_path, idx, campaign_id, name, platform, country, status, start_date, end_date,
			 budget, spent, conversions, cpa, roas)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			path, i, cp.ID, cp.Name, string(cp.Platform), string(cp.Country), string(cp.Status),
			cp.Start.Format(dateLayout), cp.End.Format(dateLayout),
			cp.Budget, cp.Spent, cp.Conversions, cp.CPA, cp.ROAS,
		)
		if err != nil {
			return err
		}
	}
	for i, b := range ds.Budget {
		_, err = tx.Exec(`INSERT INTO budget_lines (source_path, idx, channel, allocated, spent)
			VALUES (?, ?, ?, ?, ?)`, path, i, b.Channel, b.Allocated, b.Spent)
		if err != nil {
			return err
		}
	}
	for i, r := range ds.Regions {
		_, err = tx.Exec(`INSERT INTO regions (source_path, idx, country, users, revenue, growth)
			VALUES (?, ?, ?, ?, ?, ?)`, path, i, string(r.Country), r.Users, r.Revenue, r.Growth)
		if err != nil {
			return err
		}
	}
	for i, ch := range ds.Channels {
		_, err = tx.Exec(`INSERT INTO channels (source_path, idx, name, users, revenue, conversion_rate, cpa)
			VALUES (?, ?, ?, ?, ?, ?, ?)`, path, i, ch.Name, ch.Users, ch.Revenue, ch.ConversionRate, ch.CPA)
		if err != nil {
			return err
		}
	}

	for i, row := range productRows(ds) {
		_, err = tx.Exec(`INSERT INTO product_rows (source_path, section, idx, label, period, v1, v2, v3)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			path, row.section, i, row.label, row.period, row.v[0], row.v[1], row.v[2])
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, path, fi.MtimeNs, fi.SizeBytes)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadDataset reads the dataset stored for path along with its revision.
// Journey stages are not cached; callers attach them.
func (c *Cache) LoadDataset(path string) (*model.Dataset, string, error) {
	var revision string
	err := c.db.QueryRow("SELECT revision FROM datasets WHERE source_path = ?", path).Scan(&revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%s: %w", path, ErrNotCached)
	}
	if err != nil {
		return nil, "", err
	}

	ds := &model.Dataset{Countries: make(map[model.CountryID]model.CountryData)}
	if err := c.loadSeries(path, ds); err != nil {
		return nil, "", fmt.Errorf("loading series: %w", err)
	}
	if err := c.loadTargets(path, ds); err != nil {
		return nil, "", fmt.Errorf("loading targets: %w", err)
	}
	if ds.Campaigns, err = c.loadCampaigns(path); err != nil {
		return nil, "", fmt.Errorf("loading campaigns: %w", err)
	}
	if ds.Budget, err = c.loadBudget(path); err != nil {
		return nil, "", fmt.Errorf("loading budget: %w", err)
	}
	if ds.Regions, err = c.loadRegions(path); err != nil {
		return nil, "", fmt.Errorf("loading regions: %w", err)
	}
	if ds.Channels, err = c.loadChannels(path); err != nil {
		return nil, "", fmt.Errorf("loading channels: %w", err)
	}
	if err := c.loadProducts(path, ds); err != nil {
		return nil, "", fmt.Errorf("loading products: %w", err)
	}
	return ds, revision, nil
}

func (c *Cache) loadSeries(path string, ds *model.Dataset) error {
	rows, err := c.db.Query(`SELECT country, period, new_users, revenue, cpa, ltv,
		subscription_share, total_active_users, subscribed_users
		FROM series_points WHERE source_path = ? ORDER BY country, idx`, path)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var country, period string
		var p model.TimeSeriesPoint
		err := rows.Scan(&country, &period, &p.NewUsers, &p.Revenue, &p.CPA, &p.LTV,
			&p.SubscriptionShare, &p.TotalActiveUsers, &p.SubscribedUsers)
		if err != nil {
			return err
		}
		if p.Period, err = time.Parse(dateLayout, period); err != nil {
			return err
		}
		id := model.CountryID(country)
		cd := countryEntry(ds, id)
		cd.Historical = append(cd.Historical, p)
		ds.Countries[id] = cd
	}
	return rows.Err()
}

func (c *Cache) loadTargets(path string, ds *model.Dataset) error {
	rows, err := c.db.Query(`SELECT country, metric, target, forecast
		FROM metric_targets WHERE source_path = ?`, path)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var country, key string
		var t model.MetricTarget
		if err := rows.Scan(&country, &key, &t.Target, &t.Forecast); err != nil {
			return err
		}
		m, err := model.ParseMetric(key)
		if err != nil {
			return err
		}
		id := model.CountryID(country)
		cd := countryEntry(ds, id)
		cd.Targets[m] = t
		ds.Countries[id] = cd
	}
	return rows.Err()
}

func countryEntry(ds *model.Dataset, id model.CountryID) model.CountryData {
	cd, ok := ds.Countries[id]
	if !ok {
		cd = model.CountryData{ID: id, Targets: make(map[model.MetricKind]model.MetricTarget)}
	}
	return cd
}

func (c *Cache) loadCampaigns(path string) ([]model.Campaign, error) {
	rows, err := c.db.Query(`SELECT campaign_id, name, platform, country, status, start_date, end_date,
		budget, spent, conversions, cpa, roas
		FROM campaigns WHERE source_path = ? ORDER BY idx`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Campaign
	for rows.Next() {
		var cp model.Campaign
		var platform, country, status, start, end string
		err := rows.Scan(&cp.ID, &cp.Name, &platform, &country, &status, &start, &end,
			&cp.Budget, &cp.Spent, &cp.Conversions, &cp.CPA, &cp.ROAS)
		if err != nil {
			return nil, err
		}
		cp.Platform = model.Platform(platform)
		cp.Country = model.CountryID(country)
		cp.Status = model.CampaignStatus(status)
		if cp.Start, err = time.Parse(dateLayout, start); err != nil {
			return nil, err
		}
		if cp.End, err = time.Parse(dateLayout, end); err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

func (c *Cache) loadBudget(path string) ([]model.BudgetLine, error) {
	rows, err := c.db.Query(`SELECT channel, allocated, spent
		FROM budget_lines WHERE source_path = ? ORDER BY idx`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.BudgetLine
	for rows.Next() {
		var b model.BudgetLine
		if err := rows.Scan(&b.Channel, &b.Allocated, &b.Spent); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (c *Cache) loadRegions(path string) ([]model.RegionStats, error) {
	rows, err := c.db.Query(`SELECT country, users, revenue, growth
		FROM regions WHERE source_path = ? ORDER BY idx`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.RegionStats
	for rows.Next() {
		var r model.RegionStats
		var country string
		if err := rows.Scan(&country, &r.Users, &r.Revenue, &r.Growth); err != nil {
			return nil, err
		}
		r.Country = model.CountryID(country)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (c *Cache) loadChannels(path string) ([]model.ChannelStats, error) {
	rows, err := c.db.Query(`SELECT name, users, revenue, conversion_rate, cpa
		FROM channels WHERE source_path = ? ORDER BY idx`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ChannelStats
	for rows.Next() {
		var ch model.ChannelStats
		if err := rows.Scan(&ch.Name, &ch.Users, &ch.Revenue, &ch.ConversionRate, &ch.CPA); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// DeleteDataset removes a cached dataset and its file tracking entry.
func (c *Cache) DeleteDataset(path string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range childTables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE source_path = ?", path); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("DELETE FROM datasets WHERE source_path = ?", path); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", path); err != nil {
		return err
	}
	return tx.Commit()
}

// DatasetCount returns the number of cached datasets.
func (c *Cache) DatasetCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM datasets").Scan(&count)
	return count, err
}
