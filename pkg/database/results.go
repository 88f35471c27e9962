package database

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/modelscan"
)

// Run is one scan execution.
type Run struct {
	gorm.Model

	Scanned   int
	Total     int
	Dropped   int
	Cancelled bool

	Hosts []HostResult `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// HostResult is the outcome for one host in a run. Capabilities holds
// the validated capability names as a JSON array; failed hosts carry an
// empty list.
type HostResult struct {
	gorm.Model

	RunID    uint
	Hostname string
	Port     int
	Failed   bool

	Capabilities datatypes.JSON
}

// SaveReport persists a finished run. The capability index is inverted
// into per-host rows so a host appears exactly once.
func (s *Store) SaveReport(rep *modelscan.Report) error {
	byHost := make(map[modelscan.HostKey][]string)
	for _, capability := range rep.Capabilities() {
		for _, host := range rep.Index[capability] {
			byHost[host] = append(byHost[host], capability)
		}
	}

	run := Run{
		Scanned:   rep.Scanned,
		Total:     rep.Total,
		Dropped:   rep.Dropped,
		Cancelled: rep.Cancelled,
	}

	for host, capabilities := range byHost {
		row, err := makeHostResult(host, capabilities, false)
		if err != nil {
			return err
		}
		run.Hosts = append(run.Hosts, *row)
	}
	for _, host := range rep.Failed {
		row, err := makeHostResult(host, nil, true)
		if err != nil {
			return err
		}
		run.Hosts = append(run.Hosts, *row)
	}

	return s.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return errors.Wrap(err, "failed to save run")
		}
		return nil
	})
}

func makeHostResult(host modelscan.HostKey, capabilities []string, failed bool) (*HostResult, error) {
	if capabilities == nil {
		capabilities = []string{}
	}
	data, err := json.Marshal(capabilities)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode capabilities for %s", host)
	}

	return &HostResult{
		Hostname:     host.Hostname,
		Port:         host.Port,
		Failed:       failed,
		Capabilities: datatypes.JSON(data),
	}, nil
}

// FindHosts returns the stored results for a capability across all
// runs, newest first.
func (s *Store) FindHosts(capability string) ([]HostResult, error) {
	var rows []HostResult
	q := s.db.
		Where("failed = ?", false).
		Where(datatypes.JSONArrayQuery("capabilities").Contains(capability)).
		Order("created_at DESC").
		Find(&rows)
	if err := q.Error; err != nil {
		return nil, errors.Wrapf(err, "failed to find hosts for %q", capability)
	}
	return rows, nil
}
