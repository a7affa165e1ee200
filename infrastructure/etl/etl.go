// Package etl loads the source JSON exports into the relational store.
// This is one-time plumbing: it guarantees a schema snapshot exists before
// the query pipeline runs, and is not part of the request path.
package etl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/startuplens/startuplens/internal/database"
)

// schemaStatements define the fixed relational schema. The corpus
// definition in domain/corpus/seed.yaml is versioned against this schema.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id INTEGER PRIMARY KEY,
		name TEXT,
		slug TEXT,
		batch_name TEXT,
		one_liner TEXT,
		website TEXT,
		long_description TEXT,
		year_founded INTEGER,
		team_size INTEGER,
		location TEXT,
		city TEXT,
		country TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS founders (
		profileId INTEGER PRIMARY KEY,
		name TEXT,
		headline TEXT,
		location TEXT,
		connections INTEGER,
		followers INTEGER,
		summary TEXT,
		current_company TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS company_founders (
		company_id INTEGER,
		founder_id INTEGER,
		title TEXT,
		FOREIGN KEY(company_id) REFERENCES companies(id),
		FOREIGN KEY(founder_id) REFERENCES founders(profileId),
		PRIMARY KEY (company_id, founder_id)
	)`,
	`CREATE TABLE IF NOT EXISTS company_tags (
		company_id INTEGER,
		tag TEXT,
		FOREIGN KEY(company_id) REFERENCES companies(id)
	)`,
	`CREATE TABLE IF NOT EXISTS company_industries (
		company_id INTEGER,
		industry TEXT,
		is_primary BOOLEAN,
		FOREIGN KEY(company_id) REFERENCES companies(id)
	)`,
	`CREATE TABLE IF NOT EXISTS founder_experience (
		founder_id INTEGER,
		company_name TEXT,
		title TEXT,
		start_date TEXT,
		end_date TEXT,
		is_current BOOLEAN,
		duration TEXT,
		location TEXT,
		description TEXT,
		FOREIGN KEY(founder_id) REFERENCES founders(profileId)
	)`,
	`CREATE TABLE IF NOT EXISTS founder_education (
		founder_id INTEGER,
		school TEXT,
		degree TEXT,
		field TEXT,
		start_date TEXT,
		end_date TEXT,
		FOREIGN KEY(founder_id) REFERENCES founders(profileId)
	)`,
	`CREATE TABLE IF NOT EXISTS founder_skills (
		founder_id INTEGER,
		skill TEXT,
		FOREIGN KEY(founder_id) REFERENCES founders(profileId)
	)`,
	`CREATE TABLE IF NOT EXISTS company_launches (
		company_id INTEGER,
		launch_id INTEGER,
		title TEXT,
		tagline TEXT,
		total_vote_count INTEGER,
		FOREIGN KEY(company_id) REFERENCES companies(id)
	)`,
}

// CreateSchema creates the relational schema if it does not exist.
func CreateSchema(ctx context.Context, db database.Database) error {
	for _, stmt := range schemaStatements {
		if err := db.Session(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// companyJSON mirrors the company export format.
type companyJSON struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	BatchName       string   `json:"batch_name"`
	OneLiner        string   `json:"one_liner"`
	Website         string   `json:"website"`
	LongDescription string   `json:"long_description"`
	YearFounded     int      `json:"year_founded"`
	TeamSize        int      `json:"team_size"`
	Location        string   `json:"location"`
	City            string   `json:"city"`
	Country         string   `json:"country"`
	PrimaryIndustry string   `json:"primary_industry"`
	Tags            []string `json:"tags"`
	Industries      []string `json:"industries"`
	Founders        []struct {
		UserID int64  `json:"user_id"`
		Title  string `json:"title"`
	} `json:"founders"`
	Launches []struct {
		ID             int64  `json:"id"`
		Title          string `json:"title"`
		Tagline        string `json:"tagline"`
		TotalVoteCount int    `json:"total_vote_count"`
	} `json:"launches"`
}

// founderJSON mirrors the founder-profile export format.
type founderJSON struct {
	ProfileID      int64  `json:"profileId"`
	Name           string `json:"name"`
	Headline       string `json:"headline"`
	Location       string `json:"location"`
	Connections    int    `json:"connections"`
	Followers      int    `json:"followers"`
	Summary        string `json:"summary"`
	CurrentCompany string `json:"currentCompany"`
	Experience     []struct {
		Company     string `json:"company"`
		Title       string `json:"title"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		IsCurrent   bool   `json:"isCurrent"`
		Duration    string `json:"duration"`
		Location    string `json:"location"`
		Description string `json:"description"`
	} `json:"experience"`
	Education []struct {
		School    string `json:"school"`
		Degree    string `json:"degree"`
		Field     string `json:"field"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"education"`
	Skills []string `json:"skills"`
}

// Report summarizes an ingest run.
type Report struct {
	Companies int
	Founders  int
}

// Ingest loads the company and founder JSON exports into the store.
// The company export may be a bare array or wrapped in {"data": [...]}.
// Ingest is safe to repeat: keyed rows are skipped and unkeyed detail
// rows are reloaded per parent.
func Ingest(ctx context.Context, db database.Database, companiesPath, foundersPath string, logger *slog.Logger) (Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	companies, err := loadCompanies(companiesPath)
	if err != nil {
		return Report{}, err
	}
	founders, err := loadFounders(foundersPath)
	if err != nil {
		return Report{}, err
	}

	if err := CreateSchema(ctx, db); err != nil {
		return Report{}, err
	}

	session := db.Session(ctx)

	for _, f := range founders {
		err := session.Exec(
			`INSERT OR IGNORE INTO founders VALUES (?,?,?,?,?,?,?,?)`,
			f.ProfileID, f.Name, f.Headline, f.Location,
			f.Connections, f.Followers, f.Summary, f.CurrentCompany,
		).Error
		if err != nil {
			return Report{}, fmt.Errorf("insert founder %d: %w", f.ProfileID, err)
		}

		// Detail tables have no keys; reload them so re-ingesting the
		// same export does not duplicate rows.
		for _, stmt := range []string{
			`DELETE FROM founder_experience WHERE founder_id = ?`,
			`DELETE FROM founder_education WHERE founder_id = ?`,
			`DELETE FROM founder_skills WHERE founder_id = ?`,
		} {
			if err := session.Exec(stmt, f.ProfileID).Error; err != nil {
				return Report{}, fmt.Errorf("reset details for founder %d: %w", f.ProfileID, err)
			}
		}

		for _, exp := range f.Experience {
			err := session.Exec(
				`INSERT INTO founder_experience VALUES (?,?,?,?,?,?,?,?,?)`,
				f.ProfileID, exp.Company, exp.Title, exp.StartDate, exp.EndDate,
				exp.IsCurrent, exp.Duration, exp.Location, exp.Description,
			).Error
			if err != nil {
				return Report{}, fmt.Errorf("insert experience for founder %d: %w", f.ProfileID, err)
			}
		}
		for _, edu := range f.Education {
			err := session.Exec(
				`INSERT INTO founder_education VALUES (?,?,?,?,?,?)`,
				f.ProfileID, edu.School, edu.Degree, edu.Field, edu.StartDate, edu.EndDate,
			).Error
			if err != nil {
				return Report{}, fmt.Errorf("insert education for founder %d: %w", f.ProfileID, err)
			}
		}
		for _, skill := range f.Skills {
			err := session.Exec(
				`INSERT INTO founder_skills VALUES (?,?)`, f.ProfileID, skill,
			).Error
			if err != nil {
				return Report{}, fmt.Errorf("insert skill for founder %d: %w", f.ProfileID, err)
			}
		}
	}

	for _, c := range companies {
		err := session.Exec(
			`INSERT OR IGNORE INTO companies VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			c.ID, c.Name, c.Slug, c.BatchName, c.OneLiner, c.Website,
			c.LongDescription, c.YearFounded, c.TeamSize, c.Location, c.City, c.Country,
		).Error
		if err != nil {
			return Report{}, fmt.Errorf("insert company %d: %w", c.ID, err)
		}

		for _, stmt := range []string{
			`DELETE FROM company_tags WHERE company_id = ?`,
			`DELETE FROM company_industries WHERE company_id = ?`,
			`DELETE FROM company_launches WHERE company_id = ?`,
		} {
			if err := session.Exec(stmt, c.ID).Error; err != nil {
				return Report{}, fmt.Errorf("reset details for company %d: %w", c.ID, err)
			}
		}

		for _, founder := range c.Founders {
			err := session.Exec(
				`INSERT OR IGNORE INTO company_founders VALUES (?,?,?)`,
				c.ID, founder.UserID, founder.Title,
			).Error
			if err != nil {
				return Report{}, fmt.Errorf("insert company_founder for company %d: %w", c.ID, err)
			}
		}
		for _, tag := range c.Tags {
			if err := session.Exec(`INSERT INTO company_tags VALUES (?,?)`, c.ID, tag).Error; err != nil {
				return Report{}, fmt.Errorf("insert tag for company %d: %w", c.ID, err)
			}
		}
		for _, industry := range c.Industries {
			err := session.Exec(
				`INSERT INTO company_industries VALUES (?,?,?)`,
				c.ID, industry, industry == c.PrimaryIndustry,
			).Error
			if err != nil {
				return Report{}, fmt.Errorf("insert industry for company %d: %w", c.ID, err)
			}
		}
		for _, launch := range c.Launches {
			err := session.Exec(
				`INSERT INTO company_launches VALUES (?,?,?,?,?)`,
				c.ID, launch.ID, launch.Title, launch.Tagline, launch.TotalVoteCount,
			).Error
			if err != nil {
				return Report{}, fmt.Errorf("insert launch for company %d: %w", c.ID, err)
			}
		}
	}

	logger.Info("ingest complete", "companies", len(companies), "founders", len(founders))
	return Report{Companies: len(companies), Founders: len(founders)}, nil
}

func loadCompanies(path string) ([]companyJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read companies export: %w", err)
	}

	var companies []companyJSON
	if err := json.Unmarshal(data, &companies); err == nil {
		return companies, nil
	}

	var wrapped struct {
		Data []companyJSON `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parse companies export: %w", err)
	}
	return wrapped.Data, nil
}

func loadFounders(path string) ([]founderJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read founders export: %w", err)
	}

	var founders []founderJSON
	if err := json.Unmarshal(data, &founders); err != nil {
		return nil, fmt.Errorf("parse founders export: %w", err)
	}
	return founders, nil
}
