package config

const (
	defaultNASRoot             = "/mnt/nas/videos"
	defaultArchiveDir          = "~/.local/share/reelforge/processed"
	defaultLogDir              = "~/.local/share/reelforge/logs"
	defaultOutputPrefix        = "Fortnite-montage"
	defaultOverlayTitle        = "Fortnite Highlights"
	defaultOverlaySubtitle     = "with Gramps"
	defaultTitlePrefix         = "#Fortnite #Solo #Zerobuild #Highlights with Gramps from"
	defaultFallbackDescription = "Join Gramps for another action-packed Fortnite montage! Subscribe and watch live ➡ https://youtube.com/@llamachileshop 🎮🦙 #Fortnite #CoolHandGramps"
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultRenderPreset        = "ultrafast"
	defaultRenderCRF           = 23
	defaultAudioBitrate        = "192k"
	defaultCategoryID          = "20"
	defaultChunkSizeMiB        = 8
	defaultLLMBaseURL          = "https://api.openai.com/v1"
	defaultLLMModel            = "gpt-4o"
	defaultLLMTimeoutSeconds   = 60
	defaultNotifyTimeout       = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogRetentionDays    = 30
)

var defaultTags = []string{"Fortnite", "Zero Build", "Solo", "Gramps", "CoolHandGramps"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			NASRoot:    defaultNASRoot,
			ArchiveDir: defaultArchiveDir,
			LogDir:     defaultLogDir,
		},
		Brand: Brand{
			OutputPrefix:        defaultOutputPrefix,
			OverlayTitle:        defaultOverlayTitle,
			OverlaySubtitle:     defaultOverlaySubtitle,
			TitlePrefix:         defaultTitlePrefix,
			Tags:                append([]string(nil), defaultTags...),
			FallbackDescription: defaultFallbackDescription,
		},
		Render: Render{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Preset:        defaultRenderPreset,
			CRF:           defaultRenderCRF,
			AudioBitrate:  defaultAudioBitrate,
		},
		YouTube: YouTube{
			ClientSecretsPath: "~/.config/reelforge/client_secrets.json",
			TokenPath:         "~/.config/reelforge/token.json",
			CategoryID:        defaultCategoryID,
			ChunkSizeMiB:      defaultChunkSizeMiB,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
