package main

import (
	"io/ioutil"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	yaml "gopkg.in/yaml.v2"

	"github.com/Axil12/ws2812b-christmas-strip/model"
)

// playlistEntry shows a selection for a number of seconds
type playlistEntry struct {
	Seconds   float64         `yaml:"seconds"`
	Selection model.Selection `yaml:"selection"`
}

type playlist struct {
	Entries []playlistEntry `yaml:"entries"`
}

func loadPlaylist(fn string) (list *playlist, err errors.Error) {
	data, errGo := ioutil.ReadFile(fn)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("file", fn).With("stack", stack.Trace().TrimRuntime())
	}
	return parsePlaylist(data)
}

func parsePlaylist(data []byte) (list *playlist, err errors.Error) {
	list = &playlist{}
	if errGo := yaml.Unmarshal(data, list); errGo != nil {
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	if len(list.Entries) == 0 {
		return nil, errors.New("playlist is empty").With("stack", stack.Trace().TrimRuntime())
	}
	for i, entry := range list.Entries {
		if entry.Seconds <= 0 {
			return nil, errors.New("playlist entry needs a positive duration").With("entry", i).With("stack", stack.Trace().TrimRuntime())
		}
		if _, err = model.Build(&entry.Selection.Program, 1, nil, nil); err != nil {
			return nil, err.With("entry", i)
		}
	}
	return list, nil
}

// schedule cycles through a playlist, the clock running scale times faster
// than real time
type schedule struct {
	startTime time.Time
	scale     float64
	ends      []float64 // offset at which each entry finishes
	list      *playlist
	sync.Mutex
}

func newSchedule(list *playlist, scale float64) (s *schedule) {
	if scale <= 0 {
		scale = 1
	}
	s = &schedule{
		startTime: time.Now().Round(time.Second),
		scale:     scale,
		ends:      make([]float64, len(list.Entries)),
		list:      list,
	}
	total := 0.0
	for i, entry := range list.Entries {
		total += entry.Seconds
		s.ends[i] = total
	}
	return s
}

// at returns the selection scheduled at the given time
func (s *schedule) at(now time.Time) (sel *model.Selection) {
	s.Lock()
	defer s.Unlock()

	total := s.ends[len(s.ends)-1]
	offset := now.Sub(s.startTime).Seconds() * s.scale
	offset = math.Mod(offset, total)
	if offset < 0 {
		offset += total
	}

	slot := sort.Search(len(s.ends), func(i int) bool { return s.ends[i] > offset })
	if slot >= len(s.ends) {
		slot = len(s.ends) - 1
	}
	return s.list.Entries[slot].Selection.DeepCopy()
}
