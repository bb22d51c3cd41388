package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wanderdeck/engine/internal/game/rules"
)

const replayVersion = 1

// Frame is one recorded step of a game: the action taken, the state it
// produced, and the resolver outcome when the action resolved an encounter.
type Frame struct {
	Sequence int
	Action   rules.ActionKind
	PlayerID string
	Snapshot Snapshot
	Outcome  *Outcome
	Checksum string
}

// Replay is an ordered list of frames with a playback cursor.
type Replay struct {
	GameID       string
	Seed         int64
	Frames       []Frame
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(gameID string, seed int64) *Replay {
	return &Replay{
		GameID: gameID,
		Seed:   seed,
		Frames: make([]Frame, 0, 16),
	}
}

// Record appends a frame, assigning its sequence number and checksum.
func (r *Replay) Record(action rules.ActionKind, playerID string, snapshot Snapshot, outcome *Outcome) (Frame, error) {
	sum, err := snapshot.Checksum()
	if err != nil {
		return Frame{}, fmt.Errorf("checksum frame: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	frame := Frame{
		Sequence: len(r.Frames),
		Action:   action,
		PlayerID: playerID,
		Snapshot: snapshot,
		Outcome:  outcome,
		Checksum: sum.Hash,
	}
	r.Frames = append(r.Frames, frame)
	return frame, nil
}

// Start rewinds playback to the first frame.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the frame at the cursor and advances it.
func (r *Replay) Next() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.Frames) {
		frame := r.Frames[r.CurrentIndex]
		r.CurrentIndex++
		return frame, true
	}
	return Frame{}, false
}

// Previous steps the cursor back and returns that frame.
func (r *Replay) Previous() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.Frames[r.CurrentIndex], true
	}
	return Frame{}, false
}

// Skip moves the cursor by count frames, clamped to the recording.
func (r *Replay) Skip(count int) (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	idx := r.CurrentIndex + count
	if idx >= len(r.Frames) {
		idx = len(r.Frames) - 1
	}
	if idx < 0 {
		idx = 0
	}
	r.CurrentIndex = idx
	return r.Frames[idx], true
}

// Size returns the number of recorded frames.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.Frames)
}

// FrameAt returns the frame with the given sequence number.
func (r *Replay) FrameAt(index int) (Frame, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.Frames) {
		return r.Frames[index], true
	}
	return Frame{}, false
}

// Verify recomputes every frame checksum and returns the first frame that no
// longer matches.
func (r *Replay) Verify() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, frame := range r.Frames {
		ok, err := frame.Snapshot.VerifyChecksum(Checksum{Hash: frame.Checksum, Version: snapshotVersion})
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame.Sequence, err)
		}
		if !ok {
			return fmt.Errorf("frame %d: checksum mismatch", frame.Sequence)
		}
	}
	return nil
}

// SaveToFile writes the replay as gzipped gob to <directory>/<game id>.replay.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.GameID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	encoder := gob.NewEncoder(gzipWriter)

	metadata := replayMetadata{
		GameID:     r.GameID,
		Seed:       r.Seed,
		Timestamp:  time.Now(),
		Version:    replayVersion,
		FrameCount: len(r.Frames),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i := range r.Frames {
		if err := encoder.Encode(&r.Frames[i]); err != nil {
			return fmt.Errorf("failed to encode frame %d: %w", i, err)
		}
	}

	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.GameID, metadata.Seed)
	for i := 0; i < metadata.FrameCount; i++ {
		var frame Frame
		if err := decoder.Decode(&frame); err != nil {
			return nil, fmt.Errorf("failed to decode frame %d: %w", i, err)
		}
		replay.Frames = append(replay.Frames, frame)
	}
	return replay, nil
}

type replayMetadata struct {
	GameID     string
	Seed       int64
	Timestamp  time.Time
	Version    int
	FrameCount int
}

// ReplayRecorder keeps one in-memory replay per game and flushes them to
// disk when a game ends.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	saveDir string
}

// NewReplayRecorder creates a recorder that saves into saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		saveDir: saveDir,
	}
}

// StartRecording begins a fresh replay for gameID.
func (rr *ReplayRecorder) StartRecording(gameID string, seed int64) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[gameID] = NewReplay(gameID, seed)
	rr.logger.Info("started replay recording",
		zap.String("game_id", gameID),
		zap.Int64("seed", seed),
	)
}

// Record appends a frame when gameID is being recorded.
func (rr *ReplayRecorder) Record(gameID string, action rules.ActionKind, playerID string, snapshot Snapshot, outcome *Outcome) {
	rr.mu.RLock()
	replay := rr.replays[gameID]
	rr.mu.RUnlock()

	if replay == nil {
		return
	}

	frame, err := replay.Record(action, playerID, snapshot, outcome)
	if err != nil {
		rr.logger.Warn("failed to record replay frame",
			zap.String("game_id", gameID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return
	}
	rr.logger.Debug("recorded replay frame",
		zap.String("game_id", gameID),
		zap.Int("sequence", frame.Sequence),
		zap.String("action", string(action)),
		zap.String("checksum", frame.Checksum),
	)
}

// IsRecording reports whether gameID has a live replay.
func (rr *ReplayRecorder) IsRecording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	_, ok := rr.replays[gameID]
	return ok
}

// GetReplay returns the live replay for gameID.
func (rr *ReplayRecorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	replay, ok := rr.replays[gameID]
	return replay, ok
}

// SaveReplay writes the replay to disk and drops it from memory.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	rr.mu.Lock()
	replay, ok := rr.replays[gameID]
	if !ok {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for game %s", gameID)
	}
	delete(rr.replays, gameID)
	rr.mu.Unlock()

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}

	rr.logger.Info("saved replay to disk",
		zap.String("game_id", gameID),
		zap.Int("frame_count", replay.Size()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}

// LoadReplay reads a saved replay from disk.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.saveDir, gameID)
	if err != nil {
		return nil, err
	}
	rr.logger.Info("loaded replay from disk",
		zap.String("game_id", gameID),
		zap.Int("frame_count", replay.Size()),
	)
	return replay, nil
}

// ClearReplay drops a replay without saving it.
func (rr *ReplayRecorder) ClearReplay(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.replays, gameID)
	rr.logger.Debug("cleared replay from memory", zap.String("game_id", gameID))
}
