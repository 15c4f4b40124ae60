package config

type Config struct {
	Driver struct {
		// Backend 浏览器驱动后端: chromedp 或 rod
		Backend string `json:"backend" yaml:"backend"`
		// Bin 浏览器可执行文件路径
		Bin              string  `json:"bin" yaml:"bin"`
		Attempts         int     `json:"attempts" yaml:"attempts"`
		CooldownMillis   int     `json:"cooldown_ms" yaml:"cooldown_ms"`
		DownloadDir      string  `json:"download_dir" yaml:"download_dir"`
		GraceSeconds     float64 `json:"download_grace_seconds" yaml:"download_grace_seconds"`
		DownloadTimeout  int     `json:"download_timeout_seconds" yaml:"download_timeout_seconds"`
		FailOnExhaustion bool    `json:"fail_on_exhaustion" yaml:"fail_on_exhaustion"`
	} `json:"driver" yaml:"driver"`

	Rod struct {
		UserDataDir          string `json:"user_data_dir" yaml:"user_data_dir"`
		Headless             bool   `json:"headless" yaml:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features" yaml:"disable_blink_features"`
		Incognito            bool   `json:"incognito" yaml:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage" yaml:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox" yaml:"no_sandbox"`
		UserAgent            string `json:"user_agent" yaml:"user_agent"`
		Leakless             bool   `json:"leakless" yaml:"leakless"`
		Stealth              bool   `json:"stealth" yaml:"stealth"`
		Trace                bool   `json:"trace" yaml:"trace"`
	} `json:"rod" yaml:"rod"`

	Chromedp struct {
		// LifeTime 浏览器最长存活时间(秒),0 表示不限制
		LifeTime             int    `json:"life_time" yaml:"life_time"`
		UserDataDir          string `json:"user_data_dir" yaml:"user_data_dir"`
		Headless             bool   `json:"headless" yaml:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features" yaml:"disable_blink_features"`
		Incognito            bool   `json:"incognito" yaml:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage" yaml:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox" yaml:"no_sandbox"`
		UserAgent            string `json:"user_agent" yaml:"user_agent"`
	} `json:"chromedp" yaml:"chromedp"`

	Metrics struct {
		Enabled   bool   `json:"enabled" yaml:"enabled"`
		Namespace string `json:"namespace" yaml:"namespace"`
	} `json:"metrics" yaml:"metrics"`

	Runner struct {
		Parallelism int `json:"parallelism" yaml:"parallelism"`
	} `json:"runner" yaml:"runner"`
}
