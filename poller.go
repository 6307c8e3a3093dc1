package ledstrip

// This module implements a poller that watches a remote selection service, or a
// selection file on local disk, and forwards the selection each time it
// changes

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/Axil12/ws2812b-christmas-strip/model"
)

type SelectionSource interface {
	Run(quitC <-chan struct{})
}

type poller struct {
	url      url.URL
	interval time.Duration
	client   *http.Client
	last     []byte
	selectC  chan<- *model.Selection
	errorC   chan<- errors.Error
}

// NewPoller creates a poller that fetches the selection found at url every
// interval. http and https URLs may return JSON or YAML, file URLs are read as
// YAML
func NewPoller(url url.URL, interval time.Duration, selectC chan<- *model.Selection, errorC chan<- errors.Error) (p *poller) {
	if interval <= 0 {
		interval = time.Second
	}
	return &poller{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: interval},
		selectC:  selectC,
		errorC:   errorC,
	}
}

// fetch retrieves and decodes the current selection
func (p *poller) fetch() (sel *model.Selection, err errors.Error) {

	switch p.url.Scheme {
	case "http", "https":
		resp, errGo := p.client.Get(p.url.String())
		if errGo != nil {
			return nil, errors.Wrap(errGo).With("url", p.url.String()).With("stack", stack.Trace().TrimRuntime())
		}

		body, errGo := ioutil.ReadAll(resp.Body)
		resp.Body.Close()
		if errGo != nil {
			return nil, errors.Wrap(errGo).With("url", p.url.String()).With("stack", stack.Trace().TrimRuntime())
		}
		if resp.StatusCode != http.StatusOK {
			return nil, errors.New("selection request failed").With("url", p.url.String()).With("status", resp.Status).With("stack", stack.Trace().TrimRuntime())
		}

		if sel, err = model.ParseSelection(body, resp.Header.Get("Content-Type")); err != nil {
			return nil, err.With("url", p.url.String())
		}
		return sel, nil

	case "file":
		if sel, err = model.LoadSelection(p.url.Path); err != nil {
			return nil, err.With("url", p.url.String())
		}
		return sel, nil

	default:
		errGo := fmt.Errorf("unknown scheme %s for the selection URI", p.url.Scheme)
		return nil, errors.Wrap(errGo).With("url", p.url.String()).With("stack", stack.Trace().TrimRuntime())
	}
}

// check fetches the selection and reports whether it differs from the last one
// seen
func (p *poller) check() (sel *model.Selection, changed bool, err errors.Error) {
	if sel, err = p.fetch(); err != nil {
		return nil, false, err
	}
	hash := sel.Hash()
	if bytes.Equal(p.last, hash) {
		return sel, false, nil
	}
	p.last = hash
	return sel, true, nil
}

func (p *poller) sendSelection(quitC <-chan struct{}) {
	sel, changed, err := p.check()
	if err != nil {
		go sendErr(p.errorC, err, 500*time.Millisecond)
		return
	}
	if !changed {
		return
	}

	logger.Debug("selection changed", "url", p.url.String(), "kind", sel.Program.Kind)

	select {
	case p.selectC <- sel:
	case <-quitC:
	case <-time.After(750 * time.Millisecond):
		// Forget the hash so the selection is offered again on the next poll
		p.last = nil
		err := errors.New("selection dropped").With("url", p.url.String()).With("stack", stack.Trace().TrimRuntime())
		go sendErr(p.errorC, err, 2*time.Second)
	}
}

// Run polls until quitC is closed, the first poll happens immediately
func (p *poller) Run(quitC <-chan struct{}) {

	poll := time.NewTicker(p.interval)
	defer poll.Stop()

	p.sendSelection(quitC)

	for {
		select {
		case <-poll.C:
			p.sendSelection(quitC)

		case <-quitC:
			return
		}
	}
}
