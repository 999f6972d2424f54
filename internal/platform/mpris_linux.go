//go:build linux

package platform

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"tuner/internal/debounce"
	"tuner/internal/player"
)

const (
	mprisPath       = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	mprisInterface  = "org.mpris.MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"
	propsInterface  = "org.freedesktop.DBus.Properties"
	busName         = "org.mpris.MediaPlayer2.tuner"

	trackPath = dbus.ObjectPath("/org/mpris/MediaPlayer2/Track/1")

	// noArtworkURL is sent when a station has no favicon. Controllers only
	// clear stale artwork when the key is present, so the value is never
	// omitted or empty.
	noArtworkURL = "about:blank"

	// debounceDelay coalesces bursts of state changes (station switches,
	// rapid ICY updates) into one PropertiesChanged signal.
	debounceDelay = 300 * time.Millisecond
)

// busConn is the slice of *dbus.Conn the adapter uses; tests substitute a
// recording fake.
type busConn interface {
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
	Export(v any, path dbus.ObjectPath, iface string) error
	Emit(path dbus.ObjectPath, name string, values ...any) error
	Close() error
}

// connectSessionBus is replaceable in tests.
var connectSessionBus = func() (busConn, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// MPRIS exposes the player over D-Bus so desktop media controls work.
// Property values are always read from the playback controller at request
// time; change notifications are debounced and emitted as a single batched
// PropertiesChanged signal per burst.
type MPRIS struct {
	conn     busConn
	player   Player
	sender   CmdSender
	notifier *debounce.Notifier
	logger   *log.Logger

	mu      sync.Mutex
	volume  float64
	pending map[string]dbus.Variant
}

// mprisRoot implements org.mpris.MediaPlayer2.
type mprisRoot struct {
	m *MPRIS
}

// mprisPlayer implements org.mpris.MediaPlayer2.Player.
type mprisPlayer struct {
	m *MPRIS
}

// mprisProps implements org.freedesktop.DBus.Properties.
type mprisProps struct {
	m *MPRIS
}

var (
	initMu      sync.Mutex
	initialized bool
	shared      *MPRIS
	initErr     error
)

// Initialize claims the well-known bus name and publishes the MPRIS objects.
// It is idempotent: the first call does the registration, later calls return
// the same result without touching the bus again. A failure (name taken, no
// session bus) leaves the application without remote control, nothing more —
// the caller is expected to log and continue.
func Initialize(p Player, sender CmdSender) (*MPRIS, error) {
	initMu.Lock()
	defer initMu.Unlock()
	if initialized {
		return shared, initErr
	}
	initialized = true

	conn, err := connectSessionBus()
	if err != nil {
		initErr = fmt.Errorf("failed to connect to session bus: %w", err)
		return nil, initErr
	}

	shared, initErr = newAdapter(conn, p, sender, nil)
	if initErr != nil {
		_ = conn.Close()
		shared = nil
	}
	return shared, initErr
}

// newAdapter registers the adapter objects on the given connection. A nil
// scheduler selects the real clock.
func newAdapter(conn busConn, p Player, sender CmdSender, sched debounce.Scheduler) (*MPRIS, error) {
	m := &MPRIS{
		conn:    conn,
		player:  p,
		sender:  sender,
		logger:  log.New(os.Stderr, "mpris: ", log.LstdFlags),
		volume:  1.0,
		pending: make(map[string]dbus.Variant),
	}
	m.notifier = debounce.NewNotifier(debounceDelay, sched, m.collectChanged, m.flushChanged)

	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, fmt.Errorf("bus name already taken")
	}

	if err := conn.Export(&mprisRoot{m: m}, mprisPath, mprisInterface); err != nil {
		return nil, fmt.Errorf("failed to export root interface: %w", err)
	}
	if err := conn.Export(&mprisPlayer{m: m}, mprisPath, playerInterface); err != nil {
		return nil, fmt.Errorf("failed to export player interface: %w", err)
	}
	if err := conn.Export(&mprisProps{m: m}, mprisPath, propsInterface); err != nil {
		return nil, fmt.Errorf("failed to export properties interface: %w", err)
	}
	if err := conn.Export(introspect.NewIntrospectable(introNode()), mprisPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return nil, fmt.Errorf("failed to export introspectable: %w", err)
	}

	// One subscription covers both state and metadata changes: the values
	// are re-read when the debounce timer fires, so the event payload itself
	// is irrelevant.
	p.Subscribe(func(player.Event) { m.notifier.Trigger() })

	return m, nil
}

// Close releases D-Bus resources.
func (m *MPRIS) Close() {
	if m.conn != nil {
		_, _ = m.conn.ReleaseName(busName)
		_ = m.conn.Close()
	}
}

// externalStatus collapses the internal four-state status into the external
// three-state vocabulary. Remote controllers do not distinguish buffering
// from playing.
func externalStatus(s player.Status) string {
	switch s {
	case player.StatusPlaying, player.StatusBuffering:
		return "Playing"
	case player.StatusPaused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// metadataMap materializes the now-playing snapshot. The artist field is
// list-valued and the art URL key is always present, per the MPRIS contract.
func (m *MPRIS) metadataMap() map[string]dbus.Variant {
	st := m.player.Current()
	title := SanitizeUTF8(m.player.NowPlaying())
	artist := ""
	artURL := noArtworkURL

	if st != nil {
		artist = SanitizeUTF8(st.Name)
		if title == "" {
			title = artist
		}
		if st.Favicon != "" {
			artURL = SanitizeUTF8(st.Favicon)
		}
	}

	return map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(trackPath),
		"xesam:title":   dbus.MakeVariant(title),
		"xesam:artist":  dbus.MakeVariant([]string{artist}),
		"mpris:artUrl":  dbus.MakeVariant(artURL),
	}
}

// collectChanged runs when the debounce timer fires: it snapshots the
// current values (never the ones that triggered the timer) into the pending
// batch.
func (m *MPRIS) collectChanged() {
	status := dbus.MakeVariant(externalStatus(m.player.Status()))
	meta := dbus.MakeVariant(m.metadataMap())

	m.mu.Lock()
	m.pending["PlaybackStatus"] = status
	m.pending["Metadata"] = meta
	m.mu.Unlock()
}

// flushChanged emits the pending batch as a single PropertiesChanged signal
// and clears it. Emit failures are logged and dropped; remote control is
// best effort.
func (m *MPRIS) flushChanged() {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		return
	}
	changed := m.pending
	m.pending = make(map[string]dbus.Variant)
	m.mu.Unlock()

	err := m.conn.Emit(mprisPath, propsInterface+".PropertiesChanged",
		playerInterface, changed, []string{})
	if err != nil {
		m.logger.Printf("failed to emit PropertiesChanged: %v", err)
	}
}

func (m *MPRIS) rootProperties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"CanQuit":             dbus.MakeVariant(true),
		"CanRaise":            dbus.MakeVariant(true),
		"HasTrackList":        dbus.MakeVariant(false),
		"DesktopEntry":        dbus.MakeVariant("tuner"),
		"Identity":            dbus.MakeVariant("Tuner"),
		"SupportedUriSchemes": dbus.MakeVariant([]string{"http", "https"}),
		"SupportedMimeTypes":  dbus.MakeVariant([]string{"audio/mpeg"}),
	}
}

func (m *MPRIS) playerProperties() map[string]dbus.Variant {
	m.mu.Lock()
	volume := m.volume
	m.mu.Unlock()

	return map[string]dbus.Variant{
		"PlaybackStatus": dbus.MakeVariant(externalStatus(m.player.Status())),
		"LoopStatus":     dbus.MakeVariant("None"),
		"Rate":           dbus.MakeVariant(1.0),
		"MinimumRate":    dbus.MakeVariant(1.0),
		"MaximumRate":    dbus.MakeVariant(1.0),
		"Shuffle":        dbus.MakeVariant(false),
		"Metadata":       dbus.MakeVariant(m.metadataMap()),
		"Volume":         dbus.MakeVariant(volume),
		"Position":       dbus.MakeVariant(int64(0)),
		"CanGoNext":      dbus.MakeVariant(true),
		"CanGoPrevious":  dbus.MakeVariant(false),
		"CanPlay":        dbus.MakeVariant(m.player.CanPlay()),
		"CanPause":       dbus.MakeVariant(true),
		"CanSeek":        dbus.MakeVariant(false),
		"CanControl":     dbus.MakeVariant(true),
	}
}

func (m *MPRIS) propertiesFor(iface string) (map[string]dbus.Variant, bool) {
	switch iface {
	case mprisInterface:
		return m.rootProperties(), true
	case playerInterface:
		return m.playerProperties(), true
	default:
		return nil, false
	}
}

// org.freedesktop.DBus.Properties

func (p *mprisProps) Get(iface, name string) (dbus.Variant, *dbus.Error) {
	props, ok := p.m.propertiesFor(iface)
	if !ok {
		return dbus.Variant{}, dbus.NewError("org.freedesktop.DBus.Error.UnknownInterface",
			[]any{iface})
	}
	v, ok := props[name]
	if !ok {
		return dbus.Variant{}, dbus.NewError("org.freedesktop.DBus.Error.UnknownProperty",
			[]any{name})
	}
	return v, nil
}

func (p *mprisProps) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	props, ok := p.m.propertiesFor(iface)
	if !ok {
		return nil, dbus.NewError("org.freedesktop.DBus.Error.UnknownInterface",
			[]any{iface})
	}
	return props, nil
}

func (p *mprisProps) Set(iface, name string, value dbus.Variant) *dbus.Error {
	if iface == playerInterface && name == "Volume" {
		if v, ok := value.Value().(float64); ok {
			p.m.mu.Lock()
			p.m.volume = v
			p.m.mu.Unlock()
			return nil
		}
		return dbus.NewError("org.freedesktop.DBus.Error.InvalidArgs", []any{name})
	}
	return dbus.NewError("org.freedesktop.DBus.Error.PropertyReadOnly", []any{name})
}

// org.mpris.MediaPlayer2 methods

// Raise asks the application shell to come to the foreground. Redundant
// calls are harmless.
func (r *mprisRoot) Raise() *dbus.Error {
	if r.m.sender != nil {
		r.m.sender.Send(MPRISRaiseMsg{})
	}
	return nil
}

// Quit is deliberately inert: remote controllers should not be able to kill
// the application.
func (r *mprisRoot) Quit() *dbus.Error {
	return nil
}

// org.mpris.MediaPlayer2.Player methods

// Next tunes to a random station. There is no playlist, so "next" means
// shuffle.
func (p *mprisPlayer) Next() *dbus.Error {
	p.m.player.Shuffle()
	return nil
}

func (p *mprisPlayer) Previous() *dbus.Error {
	return nil
}

func (p *mprisPlayer) Pause() *dbus.Error {
	p.m.player.PlayPause()
	return nil
}

func (p *mprisPlayer) PlayPause() *dbus.Error {
	p.m.player.PlayPause()
	return nil
}

func (p *mprisPlayer) Stop() *dbus.Error {
	p.m.player.Stop()
	return nil
}

func (p *mprisPlayer) Play() *dbus.Error {
	p.m.player.PlayPause()
	return nil
}

func (p *mprisPlayer) Seek(_ int64) *dbus.Error {
	return nil
}

func (p *mprisPlayer) SetPosition(_ dbus.ObjectPath, _ int64) *dbus.Error {
	return nil
}

func (p *mprisPlayer) OpenUri(_ string) *dbus.Error {
	return nil
}

func introNode() *introspect.Node {
	return &introspect.Node{
		Name: string(mprisPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: propsInterface,
				Methods: []introspect.Method{
					{Name: "Get", Args: []introspect.Arg{
						{Name: "interface_name", Type: "s", Direction: "in"},
						{Name: "property_name", Type: "s", Direction: "in"},
						{Name: "value", Type: "v", Direction: "out"},
					}},
					{Name: "GetAll", Args: []introspect.Arg{
						{Name: "interface_name", Type: "s", Direction: "in"},
						{Name: "properties", Type: "a{sv}", Direction: "out"},
					}},
					{Name: "Set", Args: []introspect.Arg{
						{Name: "interface_name", Type: "s", Direction: "in"},
						{Name: "property_name", Type: "s", Direction: "in"},
						{Name: "value", Type: "v", Direction: "in"},
					}},
				},
				Signals: []introspect.Signal{
					{Name: "PropertiesChanged", Args: []introspect.Arg{
						{Name: "interface_name", Type: "s"},
						{Name: "changed_properties", Type: "a{sv}"},
						{Name: "invalidated_properties", Type: "as"},
					}},
				},
			},
			{
				Name: mprisInterface,
				Methods: []introspect.Method{
					{Name: "Quit"},
					{Name: "Raise"},
				},
				Properties: []introspect.Property{
					{Name: "CanQuit", Type: "b", Access: "read"},
					{Name: "CanRaise", Type: "b", Access: "read"},
					{Name: "HasTrackList", Type: "b", Access: "read"},
					{Name: "DesktopEntry", Type: "s", Access: "read"},
					{Name: "Identity", Type: "s", Access: "read"},
					{Name: "SupportedMimeTypes", Type: "as", Access: "read"},
					{Name: "SupportedUriSchemes", Type: "as", Access: "read"},
				},
			},
			{
				Name: playerInterface,
				Methods: []introspect.Method{
					{Name: "Next"},
					{Name: "Previous"},
					{Name: "Pause"},
					{Name: "PlayPause"},
					{Name: "Stop"},
					{Name: "Play"},
					{Name: "Seek", Args: []introspect.Arg{{Name: "Offset", Type: "x", Direction: "in"}}},
					{Name: "SetPosition", Args: []introspect.Arg{
						{Name: "TrackId", Type: "o", Direction: "in"},
						{Name: "Position", Type: "x", Direction: "in"},
					}},
					{Name: "OpenUri", Args: []introspect.Arg{{Name: "Uri", Type: "s", Direction: "in"}}},
				},
				Properties: []introspect.Property{
					{Name: "PlaybackStatus", Type: "s", Access: "read"},
					{Name: "LoopStatus", Type: "s", Access: "read"},
					{Name: "Rate", Type: "d", Access: "read"},
					{Name: "MinimumRate", Type: "d", Access: "read"},
					{Name: "MaximumRate", Type: "d", Access: "read"},
					{Name: "Shuffle", Type: "b", Access: "read"},
					{Name: "Metadata", Type: "a{sv}", Access: "read"},
					{Name: "Volume", Type: "d", Access: "readwrite"},
					{Name: "Position", Type: "x", Access: "read"},
					{Name: "CanGoNext", Type: "b", Access: "read"},
					{Name: "CanGoPrevious", Type: "b", Access: "read"},
					{Name: "CanPlay", Type: "b", Access: "read"},
					{Name: "CanPause", Type: "b", Access: "read"},
					{Name: "CanSeek", Type: "b", Access: "read"},
					{Name: "CanControl", Type: "b", Access: "read"},
				},
			},
		},
	}
}
