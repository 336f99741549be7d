package service

import (
	"log"

	"github.com/robfig/cron/v3"
)

// ─────────────────────────────────────────────────────────────
// Autosave — periodic persistence of dirty documents
// ─────────────────────────────────────────────────────────────

// Autosave persists the workspace on a schedule whenever there are
// unsaved changes. Explicit saves still happen on demand; this is the
// safety net for crashes and force-quits.
type Autosave struct {
	docs  *DocumentService
	sched *cron.Cron
	spec  string
}

// NewAutosave creates an autosave job. spec is a cron spec; the default
// "@every 30s" is used when empty.
func NewAutosave(docs *DocumentService, spec string) *Autosave {
	if spec == "" {
		spec = "@every 30s"
	}
	return &Autosave{docs: docs, spec: spec}
}

// Start schedules the job. Returns an error for an invalid spec.
func (a *Autosave) Start() error {
	c := cron.New()
	_, err := c.AddFunc(a.spec, func() {
		if err := a.docs.SaveIfDirty(); err != nil {
			log.Printf("autosave: save failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	a.sched = c
	return nil
}

// Stop halts the schedule. A save already in flight completes.
func (a *Autosave) Stop() {
	if a.sched != nil {
		a.sched.Stop()
		a.sched = nil
	}
}
