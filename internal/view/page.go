package view

import (
	"sync"
)

// Labels shown on the generate button
const (
	IdleLabel = "Generate QR Code"
	BusyLabel = "Generating..."
)

// ButtonState is the rendered state of the generate button
type ButtonState struct {
	Disabled bool   `json:"disabled"`
	Label    string `json:"label"`
}

// ResultState is the rendered state of the result panel
type ResultState struct {
	Hidden      bool   `json:"hidden"`
	ImageSrc    string `json:"image_src,omitempty"`
	ImageAlt    string `json:"image_alt,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	SizeText    string `json:"size_text,omitempty"`
}

// Snapshot is a copy of the whole page, keyed like the DOM ids of the web UI
type Snapshot struct {
	GenerateBtn ButtonState `json:"generateBtn"`
	Loading     bool        `json:"loading"`
	Placeholder bool        `json:"placeholder"`
	PreviewArea ResultState `json:"preview-area"`
}

// Page is the server-side model of the generator page. Every mutation fires
// the registered change listeners with a fresh snapshot.
type Page struct {
	mu        sync.Mutex
	state     Snapshot
	listeners []func(Snapshot)
}

// NewPage returns a page in its initial state: placeholder visible, nothing
// loading, result hidden.
func NewPage() *Page {
	return &Page{
		state: Snapshot{
			GenerateBtn: ButtonState{Label: IdleLabel},
			Placeholder: true,
			PreviewArea: ResultState{Hidden: true},
		},
	}
}

// OnChange registers fn to be called after every mutation
func (p *Page) OnChange(fn func(Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Snapshot returns a copy of the current page state
func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Page) update(fn func(*Snapshot)) {
	p.mu.Lock()
	fn(&p.state)
	snap := p.state
	listeners := make([]func(Snapshot), len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// Button returns the generate button element
func (p *Page) Button() *Button { return &Button{page: p} }

// Loading returns the busy indicator element
func (p *Page) Loading() *Toggle {
	return &Toggle{page: p, visible: func(s *Snapshot) *bool { return &s.Loading }}
}

// Placeholder returns the pre-submission placeholder element
func (p *Page) Placeholder() *Toggle {
	return &Toggle{page: p, visible: func(s *Snapshot) *bool { return &s.Placeholder }}
}

// Result returns the result panel element
func (p *Page) Result() *Result { return &Result{page: p} }

// Button is the generate trigger
type Button struct {
	page *Page
}

// SetBusy disables the button and swaps its label while a request runs
func (b *Button) SetBusy(busy bool) {
	b.page.update(func(s *Snapshot) {
		s.GenerateBtn.Disabled = busy
		if busy {
			s.GenerateBtn.Label = BusyLabel
		} else {
			s.GenerateBtn.Label = IdleLabel
		}
	})
}

// Toggle is an element that is only ever shown or hidden
type Toggle struct {
	page    *Page
	visible func(*Snapshot) *bool
}

// SetHidden shows or hides the element
func (t *Toggle) SetHidden(hidden bool) {
	t.page.update(func(s *Snapshot) {
		*t.visible(s) = !hidden
	})
}

// Result is the panel showing the generated image
type Result struct {
	page *Page
}

// SetHidden shows or hides the panel without touching its content
func (r *Result) SetHidden(hidden bool) {
	r.page.update(func(s *Snapshot) {
		s.PreviewArea.Hidden = hidden
	})
}

// Show fills the panel and makes it visible
func (r *Result) Show(imageSrc, imageAlt, downloadURL, sizeText string) {
	r.page.update(func(s *Snapshot) {
		s.PreviewArea = ResultState{
			Hidden:      false,
			ImageSrc:    imageSrc,
			ImageAlt:    imageAlt,
			DownloadURL: downloadURL,
			SizeText:    sizeText,
		}
	})
}
