// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ingest

import (
	"fmt"
	"strings"
)

// Process identifies the creation process of an optical photon,
// resolved once per CSV record at ingestion time.
type Process uint8

const (
	// ProcOther groups photons from processes other than Cherenkov
	// emission or scintillation.
	ProcOther Process = iota
	// ProcCherenkov identifies Cherenkov photons.
	ProcCherenkov
	// ProcScintillation identifies scintillation photons.
	ProcScintillation
)

// processOf maps the process names found in photon dumps to their
// category. Geant4 spells it "Cerenkov".
func processOf(name string) Process {
	switch name {
	case "Cerenkov", "Cherenkov":
		return ProcCherenkov
	case "Scintillation":
		return ProcScintillation
	}
	return ProcOther
}

// ParseProcess converts a process tag (cherenkov, scintillation,
// other) to a Process.
func ParseProcess(tag string) (Process, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "cherenkov", "cerenkov":
		return ProcCherenkov, nil
	case "scintillation":
		return ProcScintillation, nil
	case "other":
		return ProcOther, nil
	}
	return 0, fmt.Errorf("ingest: unknown process %q", tag)
}

func (p Process) String() string {
	switch p {
	case ProcCherenkov:
		return "cherenkov"
	case ProcScintillation:
		return "scintillation"
	case ProcOther:
		return "other"
	}
	return fmt.Sprintf("Process(%d)", uint8(p))
}
