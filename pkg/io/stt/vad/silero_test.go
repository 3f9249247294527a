package vad

import (
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/meetsec/pkg/Logger"
)

func tone(samples int, amp int16) []byte {
	out := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		v := amp
		if i%2 == 1 {
			v = -amp
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

func TestEnergy(t *testing.T) {
	assert.False(t, Energy(tone(1600, 0), DefaultEnergyThreshold).HasVoice)
	assert.False(t, Energy(tone(1600, 50), DefaultEnergyThreshold).HasVoice)
	loud := Energy(tone(1600, 8000), DefaultEnergyThreshold)
	assert.True(t, loud.HasVoice)
	assert.Equal(t, float32(1), loud.Confidence)
	assert.False(t, Energy(nil, DefaultEnergyThreshold).HasVoice)
}

func TestDetectWithoutServiceUsesEnergy(t *testing.T) {
	d := New(Config{}, Logger.NewNop())
	ok, err := d.HasVoice(context.Background(), tone(16000, 8000), 16000)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.HasVoice(context.Background(), tone(16000, 0), 16000)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDetectIgnoresTinyChunks(t *testing.T) {
	res, err := New(Config{}, Logger.NewNop()).Detect(context.Background(), tone(10, 8000), 16000)
	require.NoError(t, err)
	assert.False(t, res.HasVoice)
}

func TestDetectCallsService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vad", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "16000", r.FormValue("sampling_rate"))
		_, _ = w.Write([]byte(`{"has_voice":false,"confidence":0.1,"segments":[{"start":0.2,"end":0.9,"confidence":0.7}]}`))
	}))
	defer srv.Close()

	res, err := New(Config{URL: srv.URL}, Logger.NewNop()).Detect(context.Background(), tone(16000, 0), 16000)
	require.NoError(t, err)
	assert.True(t, res.HasVoice)
}

func TestDetectFallsBackWhenServiceFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	res, err := New(Config{URL: srv.URL}, Logger.NewNop()).Detect(context.Background(), tone(16000, 8000), 16000)
	require.NoError(t, err)
	assert.True(t, res.HasVoice)
}
