// Package importer loads the employee CSV into the users table.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samyuktha-jana/SAP-hackathon/internal/database"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MentorThresholdMonths: strictly more experience than this makes a mentor.
const MentorThresholdMonths = 24

var ErrMissingColumns = errors.New("missing column(s)")

// RequiredColumns is the header the HR export must carry.
var RequiredColumns = []string{
	"ID", "Name", "Department", "Team", "Position", "Age",
	"College", "Salary", "Skills", "Experience Period (Months)",
	"email", "chat", "timezone", "topics", "office_hours",
}

type Result struct {
	Imported       int      `json:"imported"`
	Mentors        int      `json:"mentors"`
	RewardsCreated int64    `json:"rewards_created"`
	Skipped        []string `json:"skipped,omitempty"`
}

type Importer struct {
	db  *gorm.DB
	log logger.ILogger
}

func New(db *gorm.DB, log logger.ILogger) *Importer {
	return &Importer{db: db, log: log}
}

// Import reads the CSV and upserts every row with INSERT OR REPLACE keyed
// on ID, then initialises reward balances for new mentors.
func (im *Importer) Import(r io.Reader) (*Result, error) {
	users, skipped, err := ParseUsers(r)
	if err != nil {
		return nil, err
	}

	res := &Result{Skipped: skipped}
	err = im.db.Transaction(func(tx *gorm.DB) error {
		if len(users) > 0 {
			if err := tx.Clauses(clause.Insert{Modifier: "OR REPLACE"}).CreateInBatches(&users, 200).Error; err != nil {
				return fmt.Errorf("upsert users: %w", err)
			}
		}
		n, err := database.EnsureRewards(tx)
		if err != nil {
			return err
		}
		res.RewardsCreated = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Imported = len(users)
	for _, u := range users {
		if u.IsMentor {
			res.Mentors++
		}
	}
	im.log.Info("importer", "users imported", map[string]interface{}{
		"imported": res.Imported,
		"mentors":  res.Mentors,
		"skipped":  len(skipped),
	})
	return res, nil
}

// ParseUsers converts CSV rows to users. Rows without a usable ID or email
// are skipped and reported, everything else is lenient like the HR export.
func ParseUsers(r io.Reader) ([]models.User, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[h] = i
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var (
		users   []models.User
		skipped []string
	)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("read line %d: %w", line, err)
		}
		get := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		id, err := strconv.ParseUint(get("ID"), 10, 64)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("line %d: bad ID %q", line, get("ID")))
			continue
		}
		email := strings.ToLower(get("email"))
		if err := util.ValidateEmail(email); err != nil {
			skipped = append(skipped, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		months := toInt(get("Experience Period (Months)"))
		users = append(users, models.User{
			ID:               uint(id),
			Name:             get("Name"),
			Email:            email,
			Position:         get("Position"),
			Department:       get("Department"),
			Team:             get("Team"),
			Skills:           get("Skills"),
			MonthsExperience: months,
			IsMentor:         months > MentorThresholdMonths,
			Chat:             get("chat"),
			Timezone:         get("timezone"),
			Topics:           get("topics"),
			OfficeHours:      get("office_hours"),
			College:          get("College"),
			Age:              toInt(get("Age")),
			Salary:           toFloat(get("Salary")),
		})
	}
	return users, skipped, nil
}

// toInt accepts "36" and "36.0"; anything else is 0.
func toInt(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return int(toFloat(s))
}

func toFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}
