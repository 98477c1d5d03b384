package isecmobile

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientStatus(t *testing.T) {
	t.Parallel()
	panel := newFakePanel(t)

	payload := statusPayload(0x41)
	payload[offZonesOpen] = 0x03 // zones 1 and 2 open
	payload[offCentral] = 0x08
	payload[offPower] = 0x05
	payload[offBattery] = 90
	panel.setResponder(func(cmd byte, _ []byte) []byte {
		require.Equal(t, byte(opStatus), cmd)
		return statusRespFrame(payload)
	})

	host, port := panel.hostPort()
	cli, err := Dial(host, port, time.Second)
	require.NoError(t, err)
	defer func() { _ = cli.Close() }()

	status, err := cli.Status(testCommands())
	require.NoError(t, err)
	require.Equal(t, "AMT 4010 SMART", status.Model.Name)
	require.True(t, status.Armed)
	require.True(t, status.Zones[0].Open)
	require.True(t, status.Zones[1].Open)
	require.False(t, status.Zones[2].Open)
	require.True(t, status.ACPower)
	require.Equal(t, 90, status.BatteryLevel)
	require.False(t, status.Problem)
}

func TestClientNack(t *testing.T) {
	t.Parallel()
	for code, want := range map[byte]error{
		0xe1: ErrInvalidPassword,
		0xe4: ErrOpenZones,
		0xe7: ErrCommandRejected,
	} {
		panel := newFakePanel(t)
		panel.setResponder(func(cmd byte, _ []byte) []byte {
			return respFrame(cmd, code)
		})

		host, port := panel.hostPort()
		cli, err := Dial(host, port, time.Second)
		require.NoError(t, err)

		_, err = cli.Send(testCommands().Arm())
		require.ErrorIs(t, err, want)
		_ = cli.Close()
	}
}

func TestClientResponseTimeout(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	// The server answers with 3 bytes of a frame that declares 20, then
	// stalls forever.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		buf := make([]byte, 64)
		_, _ = conn.Read(buf)
		_, _ = conn.Write([]byte{20, frameStart, frameSeparator})
		time.Sleep(5 * time.Second)
		_ = conn.Close()
	}()

	host, port, _ := net.SplitHostPort(ln.Addr().String())
	cli, err := Dial(host, port, 100*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = cli.Close() }()

	_, err = cli.Send(testCommands().Status())
	require.ErrorIs(t, err, ErrResponseTimeout)
}

func TestClientConnectionLost(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		buf := make([]byte, 64)
		_, _ = conn.Read(buf)
		_ = conn.Close()
	}()

	host, port, _ := net.SplitHostPort(ln.Addr().String())
	cli, err := Dial(host, port, time.Second)
	require.NoError(t, err)
	defer func() { _ = cli.Close() }()

	_, err = cli.Send(testCommands().Status())
	require.ErrorIs(t, err, ErrConnectionLost)
}

func TestClientRejectsRunt(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		buf := make([]byte, 64)
		_, _ = conn.Read(buf)
		_, _ = conn.Write([]byte{5, frameStart, frameSeparator, frameSeparator, 0x00})
		_ = conn.Close()
	}()

	host, port, _ := net.SplitHostPort(ln.Addr().String())
	cli, err := Dial(host, port, time.Second)
	require.NoError(t, err)
	defer func() { _ = cli.Close() }()

	_, err = cli.Send(testCommands().Status())
	require.ErrorIs(t, err, ErrMalformedFrame)
}
