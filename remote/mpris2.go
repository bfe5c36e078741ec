// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"errors"
	"math"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"github.com/vidyamurthy/SimpleMusicPlayer/logger"
)

const (
	mprisPath      = "/org/mpris/MediaPlayer2"
	mprisPlayerIf  = "org.mpris.MediaPlayer2.Player"
	mprisName      = "org.mpris.MediaPlayer2.smp"
	mprisTrackPath = "/org/mpris/MediaPlayer2/Track/"
	noTrackPath    = "/org/mpris/MediaPlayer2/TrackList/NoTrack"
)

type MprisPlayer struct {
	dbus   *dbus.Conn
	props  *prop.Properties
	player ControlledPlayer
	logger logger.LoggerInterface

	// base URL for mpris:artUrl, empty when the http remote is off
	artURL string
}

func RegisterMprisPlayer(player ControlledPlayer, artURL string, logger_ logger.LoggerInterface) (mpp *MprisPlayer, err error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return
	}

	mpp = &MprisPlayer{
		dbus:   conn,
		player: player,
		logger: logger_,
		artURL: artURL,
	}

	err = conn.ExportAll(mpp, mprisPath, mprisPlayerIf)
	if err != nil {
		return
	}

	var mprisPlayer = map[string]*prop.Prop{
		"CanControl":     {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanGoNext":      {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanPause":       {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanPlay":        {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanSeek":        {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanGoPrevious":  {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Metadata":       {Value: mpp.trackMetadata(player.CurrentTrack()), Writable: false, Emit: prop.EmitTrue, Callback: nil},
		"Volume":         {Value: float64(player.GetVolume()) / 100, Writable: true, Emit: prop.EmitTrue, Callback: mpp.volumeChange},
		"PlaybackStatus": {Value: playbackStatus(player), Writable: false, Emit: prop.EmitTrue, Callback: nil},
		"Position":       {Value: int64(0), Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Rate":           {Value: 1.0, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"MinimumRate":    {Value: 1.0, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"MaximumRate":    {Value: 1.0, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		// picks are random with repeats
		"Shuffle":    {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"LoopStatus": {Value: "Playlist", Writable: false, Emit: prop.EmitFalse, Callback: nil},
	}

	var mediaPlayer = map[string]*prop.Prop{
		"CanQuit":             {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanRaise":            {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"HasTrackList":        {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Identity":            {Value: "smp", Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"SupportedUriSchemes": {Value: []string{"file"}, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"SupportedMimeTypes":  {Value: []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/mp4", "audio/wav"}, Writable: false, Emit: prop.EmitFalse, Callback: nil},
	}

	mpp.props, err = prop.Export(
		conn,
		mprisPath,
		map[string]map[string]*prop.Prop{
			"org.mpris.MediaPlayer2": mediaPlayer,
			mprisPlayerIf:            mprisPlayer,
		},
	)
	if err != nil {
		return
	}

	n := &introspect.Node{
		Name: mprisPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       mprisPlayerIf,
				Methods:    introspect.Methods(mpp),
				Properties: mpp.props.Introspection(mprisPlayerIf), // we implement the standard interface
			},
		},
	}
	err = conn.Export(introspect.NewIntrospectable(n), mprisPath, "org.freedesktop.DBus.Introspectable")
	if err != nil {
		return
	}

	// our unique name
	reply, err := conn.RequestName(mprisName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		err = errors.New("name already owned")
		return
	}

	player.OnPlaying(mpp.updatePlaybackStatus)
	player.OnPaused(mpp.updatePlaybackStatus)
	player.OnStopped(mpp.updatePlaybackStatus)
	player.OnSongChange(mpp.OnSongChange)
	player.OnSeek(mpp.onSeek)
	return
}

func (m *MprisPlayer) Close() {
	if err := m.dbus.Close(); err != nil {
		m.logger.PrintError("mpp Close", err)
	}
}

// Mandatory functions
func (m *MprisPlayer) Stop() *dbus.Error {
	if err := m.player.Stop(); err != nil {
		m.logger.PrintError("mpp Stop", err)
	}
	return nil
}

func (m *MprisPlayer) Next() *dbus.Error {
	if err := m.player.NextTrack(); err != nil {
		m.logger.PrintError("mpp NextTrack", err)
	}
	return nil
}

// set paused
func (m *MprisPlayer) Pause() *dbus.Error {
	if err := m.player.Pause(); err != nil {
		m.logger.PrintError("mpp Pause", err)
	}
	return nil
}

// set playing
func (m *MprisPlayer) Play() *dbus.Error {
	if err := m.player.Play(); err != nil {
		m.logger.PrintError("mpp Play", err)
	}
	return nil
}

func (m *MprisPlayer) PlayPause() *dbus.Error {
	if err := m.player.TogglePlayPause(); err != nil {
		m.logger.PrintError("mpp PlayPause", err)
	}
	return nil
}

// Seek moves by offset microseconds.
func (m *MprisPlayer) Seek(offset int64) *dbus.Error {
	if err := m.player.SeekRelative(float64(offset) / 1e6); err != nil {
		m.logger.PrintError("mpp Seek", err)
	}
	return nil
}

// SetPosition is ignored unless trackId is the current track.
func (m *MprisPlayer) SetPosition(trackId dbus.ObjectPath, position int64) *dbus.Error {
	track := m.player.CurrentTrack()
	if track == nil || trackId != trackObjectPath(track) {
		return nil
	}
	if position < 0 || position > int64(track.GetDuration())*1e6 {
		return nil
	}
	if err := m.player.SeekAbsolute(float64(position) / 1e6); err != nil {
		m.logger.PrintError("mpp SetPosition", err)
	}
	return nil
}

func (m *MprisPlayer) Previous() *dbus.Error {
	// no history to go back to
	return nil
}

func (m *MprisPlayer) OpenUri(string) *dbus.Error {
	// the track list is fixed at start
	return nil
}

func (m *MprisPlayer) volumeChange(c *prop.Change) *dbus.Error {
	fVol := c.Value.(float64)

	// convert to %
	percentVol := int(math.Round(fVol * 100))
	if err := m.player.SetVolume(percentVol); err != nil {
		m.logger.PrintError("volumeChange", err)
	} else {
		m.logger.Printf("mpris: adjust volume %f -> %d%%", fVol, percentVol)
	}
	return nil
}

func (m *MprisPlayer) updatePlaybackStatus() {
	m.props.SetMust(mprisPlayerIf, "PlaybackStatus", playbackStatus(m.player))
	m.props.SetMust(mprisPlayerIf, "Position", int64(m.player.GetTimePos()*1e6))
}

func (m *MprisPlayer) onSeek(position float64) {
	us := int64(position * 1e6)
	m.props.SetMust(mprisPlayerIf, "Position", us)
	if err := m.dbus.Emit(mprisPath, mprisPlayerIf+".Seeked", us); err != nil {
		m.logger.PrintError("mpris: Emit Seeked", err)
	}
}

// OnSongChange publishes the metadata of the new current track.
func (m *MprisPlayer) OnSongChange(currentSong TrackInterface) {
	m.logger.Print("mpris: OnSongChange called")
	m.props.SetMust(mprisPlayerIf, "Metadata", m.trackMetadata(currentSong))
	m.props.SetMust(mprisPlayerIf, "Position", int64(0))
}

func (m *MprisPlayer) trackMetadata(track TrackInterface) map[string]interface{} {
	if track == nil || !track.IsValid() {
		return map[string]interface{}{
			"mpris:trackid": dbus.ObjectPath(noTrackPath),
		}
	}

	metadata := map[string]interface{}{
		"mpris:trackid":     trackObjectPath(track),
		"mpris:length":      int64(track.GetDuration()) * 1000000, // duration in microseconds
		"xesam:album":       track.GetAlbum(),
		"xesam:artist":      []string{track.GetArtist()},
		"xesam:title":       track.GetTitle(),
		"xesam:trackNumber": track.GetTrackNumber(),
		"xesam:url":         "file://" + track.GetPath(),
	}
	if m.artURL != "" {
		metadata["mpris:artUrl"] = strings.TrimSuffix(m.artURL, "/") + "/api/artwork?id=" + track.GetId()
	}
	return metadata
}

func trackObjectPath(track TrackInterface) dbus.ObjectPath {
	return dbus.ObjectPath(mprisTrackPath + track.GetId())
}

func playbackStatus(player ControlledPlayer) string {
	switch {
	case player.IsPlaying():
		return "Playing"
	case player.IsPaused():
		return "Paused"
	default:
		return "Stopped"
	}
}
