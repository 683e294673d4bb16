package generation

import (
	"context"
	"log"

	"ideaforge/internal/llm"
)

// BackendPreference is the user-facing backend choice stored in app settings.
type BackendPreference string

const (
	PreferAuto    BackendPreference = "auto"
	PreferManaged BackendPreference = "managed"
	PreferLocal   BackendPreference = "local"
)

// Resolution is the outcome of one availability pass. When Wait is set no
// session may start yet; callers surface a waiting state and re-resolve on
// the next readiness signal. A Wait resolution is not a session error.
type Resolution struct {
	Backend           llm.BackendKind
	Wait              bool
	Reason            string
	TriggeredDownload bool
}

// DownloadStarter triggers the local weights download. StartDownload must be
// idempotent while a download is already in flight.
type DownloadStarter interface {
	StartDownload(ctx context.Context) error
}

// AvailabilityResolver picks the effective backend for a session from the
// current readiness signals and the user preference. Selection happens once,
// before the session starts; there is no mid-session backend switching.
type AvailabilityResolver struct {
	downloads DownloadStarter
}

func NewAvailabilityResolver(downloads DownloadStarter) *AvailabilityResolver {
	return &AvailabilityResolver{downloads: downloads}
}

func (r *AvailabilityResolver) Resolve(ctx context.Context, pref BackendPreference, managed llm.ManagedStatus, local llm.LocalStatus) Resolution {
	if managed.State == llm.ManagedInitializing {
		return Resolution{Wait: true, Reason: "managed backend is initializing"}
	}

	// The single automatic download trigger in the system: the local backend
	// is required (preferred, or the managed one is ineligible) and its
	// weights were never fetched. Other unavailable states do not widen this.
	localRequired := pref == PreferLocal || managed.State != llm.ManagedAvailable
	if localRequired && local.State == llm.LocalNotDownloaded {
		triggered := false
		if r.downloads != nil {
			if err := r.downloads.StartDownload(ctx); err != nil {
				log.Printf("resolver: failed to start weights download: %v", err)
			} else {
				triggered = true
			}
		}
		return Resolution{Wait: true, Reason: "local model weights are not downloaded", TriggeredDownload: triggered}
	}

	if managed.State == llm.ManagedAvailable && pref != PreferLocal {
		return Resolution{Backend: llm.BackendManaged}
	}
	if local.State == llm.LocalReady {
		return Resolution{Backend: llm.BackendLocal}
	}
	if local.State == llm.LocalDownloading {
		return Resolution{Wait: true, Reason: "local model weights are downloading"}
	}
	return Resolution{Wait: true, Reason: "no generation backend available"}
}
