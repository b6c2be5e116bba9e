package config

type PresetItem struct {
	Name        string  `yaml:"name" json:"name"`
	CostPerUnit float64 `yaml:"costPerUnit" json:"costPerUnit"`
}

type Config struct {
	Debug  bool   `yaml:"debug" json:"debug"`
	Listen string `yaml:"listen" json:"listen"`

	HistoryLimit int          `yaml:"historyLimit" json:"historyLimit"`
	PresetItems  []PresetItem `yaml:"presetItems" json:"presetItems"`
}

func (cfg *Config) Valid() bool {
	return cfg.Listen != ""
}

// ApplyDefaults fills the fields a config file may leave out. The preset
// items are the house defaults suggested before any bill has been saved.
func (cfg *Config) ApplyDefaults() {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}

	if len(cfg.PresetItems) == 0 {
		cfg.PresetItems = []PresetItem{
			{Name: "Coke", CostPerUnit: 20},
			{Name: "Bánh mì", CostPerUnit: 25},
			{Name: "Nước lọc", CostPerUnit: 15},
			{Name: "Mì tôm", CostPerUnit: 35},
		}
	}
}
