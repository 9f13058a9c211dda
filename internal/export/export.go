// Package export renders sweep results as JSON or CSV reports.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/adbsweep/adbsweep/internal/logging"
	"github.com/adbsweep/adbsweep/internal/sweep"
)

// Device is one discovered service in a report.
type Device struct {
	IP         string  `json:"ip"`
	Port       uint16  `json:"port"`
	DeviceType string  `json:"device_type"`
	Status     string  `json:"status"`
	Banner     string  `json:"banner,omitempty"`
	ElapsedMS  float64 `json:"elapsed_ms"`
	Timestamp  string  `json:"timestamp"`
}

// Stats summarizes a finished sweep.
type Stats struct {
	Found     uint64  `json:"found"`
	Scanned   uint64  `json:"scanned"`
	Time      float64 `json:"time"`
	Timestamp string  `json:"timestamp"`
}

// Report is the exportable view of one sweep: the devices that answered,
// plus run statistics.
type Report struct {
	Devices []Device `json:"devices"`
	Stats   Stats    `json:"stats"`
}

var csvHeader = []string{"ip", "port", "device_type", "status", "banner", "elapsed_ms", "timestamp"}

// NewReport builds a report from a session's results and final progress.
// Only targets with an open port appear in the device list; results arrive
// already sorted by address and port, so reports are deterministic.
func NewReport(results []sweep.ProbeResult, progress sweep.Progress) *Report {
	now := time.Now().Format(time.RFC3339)
	report := &Report{
		Devices: make([]Device, 0, len(results)),
		Stats: Stats{
			Found:     progress.Found,
			Scanned:   progress.Scanned,
			Time:      progress.Elapsed.Seconds(),
			Timestamp: now,
		},
	}

	for _, r := range results {
		if !r.Open {
			continue
		}
		report.Devices = append(report.Devices, Device{
			IP:         r.Target.IP(),
			Port:       r.Target.Port,
			DeviceType: string(r.Device),
			Status:     "online",
			Banner:     r.Banner,
			ElapsedMS:  float64(r.Elapsed.Microseconds()) / 1000,
			Timestamp:  now,
		})
	}
	return report
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}

// WriteCSV writes the device list as CSV with a header row.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, d := range r.Devices {
		row := []string{
			d.IP,
			strconv.Itoa(int(d.Port)),
			d.DeviceType,
			d.Status,
			d.Banner,
			strconv.FormatFloat(d.ElapsedMS, 'f', 3, 64),
			d.Timestamp,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV report: %w", err)
	}
	return nil
}

// SaveJSON writes the report to a file as JSON.
func (r *Report) SaveJSON(path string) error {
	if err := r.save(path, r.WriteJSON); err != nil {
		return err
	}
	logging.Info("Exported JSON report", "path", path, "devices", len(r.Devices))
	return nil
}

// SaveCSV writes the report to a file as CSV.
func (r *Report) SaveCSV(path string) error {
	if err := r.save(path, r.WriteCSV); err != nil {
		return err
	}
	logging.Info("Exported CSV report", "path", path, "devices", len(r.Devices))
	return nil
}

func (r *Report) save(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}
	return nil
}

// TimestampedPath returns "scan_result_<stamp>.<ext>" for default export
// file names.
func TimestampedPath(ext string) string {
	return fmt.Sprintf("scan_result_%s.%s", time.Now().Format("20060102_150405"), ext)
}
