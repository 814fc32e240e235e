package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON decoding; the
// only difference is that duration fields accept human-readable strings
// like "30s" via the [Duration] wrapper.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey     string   `json:"token_sign_key"`
		TokenIssuer      string   `json:"token_issuer"`
		TokenDuration    Duration `json:"token_duration"`
		OTPTTL           Duration `json:"otp_ttl"`
		OTPSweepInterval Duration `json:"otp_sweep_interval"`
		Version          string   `json:"version"`
	} `json:"app,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Local struct {
			Dir        string `json:"dir"`
			ReplicaDSN string `json:"replica_dsn"`
		} `json:"local,omitempty"`
	} `json:"storage,omitempty"`

	Sync struct {
		Interval               Duration `json:"interval"`
		EventStoreCap          int      `json:"event_store_cap"`
		EventMaxAge            Duration `json:"event_max_age"`
		TombstoneClearInterval Duration `json:"tombstone_clear_interval"`
		TombstonePerEntryTTL   bool     `json:"tombstone_per_entry_ttl"`
	} `json:"sync,omitempty"`

	Notify struct {
		EmailEndpoint    string   `json:"email_endpoint"`
		WhatsAppEndpoint string   `json:"whatsapp_endpoint"`
		RequestTimeout   Duration `json:"request_timeout"`
		QueueSize        int      `json:"queue_size"`
	} `json:"notify,omitempty"`

	Agent struct {
		ServerURL      string   `json:"server_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"agent,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:     jsonCfg.App.TokenSignKey,
			TokenIssuer:      jsonCfg.App.TokenIssuer,
			TokenDuration:    time.Duration(jsonCfg.App.TokenDuration),
			OTPTTL:           time.Duration(jsonCfg.App.OTPTTL),
			OTPSweepInterval: time.Duration(jsonCfg.App.OTPSweepInterval),
			Version:          jsonCfg.App.Version,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Local: Local{
				Dir:        jsonCfg.Storage.Local.Dir,
				ReplicaDSN: jsonCfg.Storage.Local.ReplicaDSN,
			},
		},
		Sync: Sync{
			Interval:               time.Duration(jsonCfg.Sync.Interval),
			EventStoreCap:          jsonCfg.Sync.EventStoreCap,
			EventMaxAge:            time.Duration(jsonCfg.Sync.EventMaxAge),
			TombstoneClearInterval: time.Duration(jsonCfg.Sync.TombstoneClearInterval),
			TombstonePerEntryTTL:   jsonCfg.Sync.TombstonePerEntryTTL,
		},
		Notify: Notify{
			EmailEndpoint:    jsonCfg.Notify.EmailEndpoint,
			WhatsAppEndpoint: jsonCfg.Notify.WhatsAppEndpoint,
			RequestTimeout:   time.Duration(jsonCfg.Notify.RequestTimeout),
			QueueSize:        jsonCfg.Notify.QueueSize,
		},
		Agent: Agent{
			ServerURL:      jsonCfg.Agent.ServerURL,
			RequestTimeout: time.Duration(jsonCfg.Agent.RequestTimeout),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
