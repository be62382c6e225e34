// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogOnNilSinkIsNoop(t *testing.T) {
	var s *Sink
	assert.NotPanics(t, func() {
		s.Log(Record{Distro: "noble"})
	})
}

func TestLogDropsWhenQueueFull(t *testing.T) {
	s := &Sink{records: make(chan Record, 1)}
	s.Log(Record{Distro: "a"})
	s.Log(Record{Distro: "b"})
	assert.Len(t, s.records, 1)
	assert.Equal(t, "a", (<-s.records).Distro)
}

func TestCloseOnNilSinkIsNoop(t *testing.T) {
	var s *Sink
	assert.NoError(t, s.Close())
}
