package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverMongo {
		t.Errorf("Driver = %q, want %q", cfg.Storage.Driver, DriverMongo)
	}
	if cfg.Reporting.CronSchedule != "0 20 * * *" {
		t.Errorf("CronSchedule = %q", cfg.Reporting.CronSchedule)
	}
	if cfg.SheetsEnabled() {
		t.Error("sheets export should be disabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_MemoryDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("Driver = %q, want %q", cfg.Storage.Driver, DriverMemory)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "cassandra")

	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown storage driver")
	}
}

func TestLoad_SheetsMustBeSetTogether(t *testing.T) {
	t.Setenv("GOOGLE_SHEET_REPORT_ID", "sheet-id")

	if _, err := Load(""); err == nil {
		t.Error("expected error when only one sheets setting is provided")
	}
}

func TestLoad_SheetsEnabled(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
	t.Setenv("GOOGLE_SHEET_REPORT_ID", "sheet-id")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.SheetsEnabled() {
		t.Error("sheets export should be enabled")
	}
}
