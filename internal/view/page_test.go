package view

import (
	"encoding/json"
	"testing"
)

func TestNewPageInitialState(t *testing.T) {
	snap := NewPage().Snapshot()
	if !snap.Placeholder {
		t.Error("expected placeholder visible")
	}
	if snap.Loading {
		t.Error("expected loading hidden")
	}
	if !snap.PreviewArea.Hidden {
		t.Error("expected result panel hidden")
	}
	if snap.GenerateBtn.Disabled || snap.GenerateBtn.Label != IdleLabel {
		t.Errorf("unexpected button state %+v", snap.GenerateBtn)
	}
}

func TestElementsMutatePage(t *testing.T) {
	page := NewPage()
	var changes int
	page.OnChange(func(Snapshot) { changes++ })

	page.Button().SetBusy(true)
	page.Loading().SetHidden(false)
	page.Placeholder().SetHidden(true)
	page.Result().Show("http://remote/img/1.png", "QR code", "http://remote/download/1", "Size: 1.5 KB")

	snap := page.Snapshot()
	if !snap.GenerateBtn.Disabled || snap.GenerateBtn.Label != BusyLabel {
		t.Errorf("unexpected button %+v", snap.GenerateBtn)
	}
	if !snap.Loading || snap.Placeholder {
		t.Errorf("unexpected toggles loading=%v placeholder=%v", snap.Loading, snap.Placeholder)
	}
	if snap.PreviewArea.Hidden || snap.PreviewArea.ImageSrc != "http://remote/img/1.png" {
		t.Errorf("unexpected result %+v", snap.PreviewArea)
	}
	if changes != 4 {
		t.Errorf("expected 4 change notifications, got %d", changes)
	}

	page.Result().SetHidden(true)
	if snap := page.Snapshot(); !snap.PreviewArea.Hidden || snap.PreviewArea.ImageSrc == "" {
		t.Errorf("expected hidden panel to keep its content, got %+v", snap.PreviewArea)
	}
}

func TestSnapshotUsesDOMIDs(t *testing.T) {
	data, err := json.Marshal(NewPage().Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"generateBtn", "loading", "placeholder", "preview-area"} {
		if _, ok := m[key]; !ok {
			t.Errorf("expected key %q in %s", key, data)
		}
	}
}
