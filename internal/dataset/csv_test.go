package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/resonara/pkg/models"
)

func TestReadTimeSeries(t *testing.T) {
	input := "Time (s),Torque (Nm)\n0.0,1.5\n0.001,-2.25\n0.002,3e1\n"

	ts, err := ReadTimeSeries(strings.NewReader(input), "")
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.001, 0.002}, ts.Time)
	assert.Equal(t, []float64{1.5, -2.25, 30}, ts.Value)
}

func TestReadTimeSeries_CustomColumnAndOrder(t *testing.T) {
	input := "\ufeffSpeed (rpm), Strain (ue),Time (s)\n1500,12,0\n1500,14,0.5\n"

	ts, err := ReadTimeSeries(strings.NewReader(input), "Strain (ue)")
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.5}, ts.Time)
	assert.Equal(t, []float64{12, 14}, ts.Value)
}

func TestReadTimeSeries_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		column  string
		wantErr string
	}{
		{name: "empty", input: "", wantErr: "empty time series file"},
		{name: "no time column", input: "t,Torque (Nm)\n0,1\n", wantErr: `missing column: "Time (s)"`},
		{name: "no value column", input: "Time (s),Force (N)\n0,1\n", wantErr: `missing column: "Torque (Nm)"`},
		{name: "bad number", input: "Time (s),Torque (Nm)\n0,1\n0.1,abc\n", wantErr: "line 3: invalid value"},
		{name: "bad time", input: "Time (s),Torque (Nm)\nx,1\n", wantErr: "line 2: invalid time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTimeSeries(strings.NewReader(tt.input), tt.column)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := ReadTimeSeries(strings.NewReader("Time (s)\n0\n"), "")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestWriteTimeSeries_ReadBack(t *testing.T) {
	ts := &models.TimeSeries{
		Time:  []float64{0, 0.001, 0.002},
		Value: []float64{12.345678901234, -0.5, 100},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTimeSeries(&buf, ts, ""))
	assert.True(t, strings.HasPrefix(buf.String(), "Time (s),Torque (Nm)\n"))

	got, err := ReadTimeSeries(&buf, "")
	require.NoError(t, err)
	assert.Equal(t, ts, got)
}

func TestWriteTimeSeries_AppendedSamples(t *testing.T) {
	ts := &models.TimeSeries{}
	ts.Append(models.Sample{Time: 0, Value: 1.5})
	ts.Append(models.Sample{Time: 0.5, Value: -2})

	var buf bytes.Buffer
	require.NoError(t, WriteTimeSeries(&buf, ts, "Load (N)"))
	assert.Equal(t, "Time (s),Load (N)\n0,1.5\n0.5,-2\n", buf.String())
}

func TestWriteTimeSeries_LengthMismatch(t *testing.T) {
	err := WriteTimeSeries(&bytes.Buffer{}, &models.TimeSeries{Time: []float64{0, 1}, Value: []float64{1}}, "")
	assert.Error(t, err)
}

func TestWriteSpectrum(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSpectrum(&buf, []models.FrequencyPoint{{Frequency: 0, Amplitude: 1}, {Frequency: 1, Amplitude: 0.25}}, "")
	require.NoError(t, err)

	assert.Equal(t, "Frequency (Hz),Amplitude (Nm)\n0,1\n1,0.25\n", buf.String())
}

func TestDominantFrequencyFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDominantFrequency(&buf, 25.0))
	assert.Equal(t, "25.00", buf.String())

	f, err := ReadDominantFrequency(&buf)
	require.NoError(t, err)
	assert.Equal(t, 25.0, f)

	f, err = ReadDominantFrequency(strings.NewReader("  60.40 \nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, 60.4, f)

	_, err = ReadDominantFrequency(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadDominantFrequency(strings.NewReader("n/a"))
	assert.Error(t, err)
}
