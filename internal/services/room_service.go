package services

import (
	"context"
	"fmt"
	"time"

	"github.com/puviyarasu12/Stream-backend/internal/models"
	"github.com/puviyarasu12/Stream-backend/internal/utils"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type RoomService struct {
	db         *mongo.Database
	collection *mongo.Collection
	users      *mongo.Collection
}

func NewRoomService(db *mongo.Database) *RoomService {
	return &RoomService{
		db:         db,
		collection: db.Collection("rooms"),
		users:      db.Collection("users"),
	}
}

// SettingsUpdate carries the allow-listed settings fields of a PATCH.
// Nil fields were omitted by the caller and keep their current value.
type SettingsUpdate struct {
	MaxParticipants *int
	AllowChat       *bool
	AllowWatchlist  *bool
	AllowTrivia     *bool
	Autoplay        *bool
	Description     *string
	VideoLink       *string
}

// Room Lifecycle

func (s *RoomService) CreateRoom(creatorID, name string, movie *models.MovieState, isPrivate bool) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Name uniqueness is scoped to active rooms, a deleted room's name
	// is reusable.
	count, err := s.collection.CountDocuments(ctx, bson.M{"name": name, "is_active": true})
	if err != nil {
		logger.LogError(err, "Failed to check room name", map[string]interface{}{"name": name})
		return nil, fmt.Errorf("failed to check room name: %w", err)
	}
	if count > 0 {
		return nil, ErrRoomNameTaken
	}

	room := &models.Room{
		Name:           name,
		Creator:        creatorID,
		Participants:   []string{creatorID},
		Settings:       models.DefaultRoomSettings(),
		Watchlist:      []models.WatchlistEntry{},
		IsPrivate:      isPrivate,
		BannedUsers:    []string{},
		IsActive:       true,
		PlaybackEvents: []models.PlaybackEvent{},
		SyncEvents:     []models.SyncEvent{},
		CreatedAt:      time.Now(),
	}

	if movie != nil {
		movie.LastUpdated = time.Now()
		room.Movie = movie
	}

	if isPrivate {
		code, err := utils.GenerateInviteCode()
		if err != nil {
			return nil, err
		}
		room.InviteCode = code
	}

	result, err := s.collection.InsertOne(ctx, room)
	if err != nil {
		logger.LogError(err, "Failed to create room", map[string]interface{}{
			"name":    name,
			"creator": creatorID,
		})
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	room.ID = result.InsertedID.(primitive.ObjectID)

	s.bumpUserStat(creatorID, "stats.rooms_created")
	logger.LogRoomEvent("room_created", room.ID.Hex(), creatorID, map[string]interface{}{
		"name":    name,
		"private": isPrivate,
	})

	return room, nil
}

// GetRoom fetches an active room without membership side effects.
func (s *RoomService) GetRoom(roomID string) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.getRoom(ctx, roomID)
}

func (s *RoomService) getRoom(ctx context.Context, roomID string) (*models.Room, error) {
	objectID, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		return nil, ErrRoomNotFound
	}

	var room models.Room
	err = s.collection.FindOne(ctx, bson.M{"_id": objectID, "is_active": true}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return &room, nil
}

// ViewRoom fetches a room on behalf of a viewer. Viewing a room admits
// the viewer as a participant when membership rules allow it, so a
// plain read can change the participant set.
func (s *RoomService) ViewRoom(roomID, viewerID string) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	changed, err := s.ensureMembership(room, viewerID)
	if err != nil {
		return nil, err
	}

	if changed {
		if err := s.saveRoom(ctx, room); err != nil {
			return nil, err
		}
		s.bumpUserStat(viewerID, "stats.rooms_joined")
		logger.LogRoomEvent("participant_joined", roomID, viewerID, nil)
	}

	return room, nil
}

// ensureMembership applies the view-path admission rules: banned users
// are refused, private rooms require prior membership, everyone else is
// admitted through the shared capacity-checked path. Returns whether
// the room document changed.
func (s *RoomService) ensureMembership(room *models.Room, userID string) (bool, error) {
	if room.IsBanned(userID) {
		return false, ErrBannedFromRoom
	}

	if room.IsPrivate && !room.IsParticipant(userID) {
		return false, ErrPrivateRoom
	}

	return admitParticipant(room, userID)
}

// admitParticipant is the shared admission step for every join path.
// It first purges banned users that are still listed as participants,
// then admits userID subject to the capacity limit. Admission is
// idempotent for existing participants.
func admitParticipant(room *models.Room, userID string) (bool, error) {
	if room.IsBanned(userID) {
		return false, ErrBannedFromRoom
	}

	changed := purgeBanned(room)

	if room.IsParticipant(userID) {
		return changed, nil
	}

	if room.AtCapacity() {
		return false, ErrRoomFull
	}

	room.Participants = append(room.Participants, userID)
	return true, nil
}

// purgeBanned removes banned users from the participant list. Repairs
// documents written before a ban took effect.
func purgeBanned(room *models.Room) bool {
	if len(room.BannedUsers) == 0 {
		return false
	}

	kept := room.Participants[:0]
	changed := false
	for _, id := range room.Participants {
		if room.IsBanned(id) {
			changed = true
			continue
		}
		kept = append(kept, id)
	}
	room.Participants = kept
	return changed
}

// Membership

// JoinRoom admits userID via an invite code, a room id, or both.
// With a room id the creator may join without a code, anyone else must
// present the room's code. With only a code the matching active room
// is resolved.
func (s *RoomService) JoinRoom(userID, inviteCode, roomID string) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var room *models.Room
	var err error

	if roomID != "" {
		room, err = s.getRoom(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if userID != room.Creator && inviteCode != room.InviteCode {
			return nil, ErrInvalidInviteCode
		}
	} else {
		room, err = s.getRoomByInviteCode(ctx, inviteCode)
		if err != nil {
			return nil, err
		}
	}

	changed, err := admitParticipant(room, userID)
	if err != nil {
		return nil, err
	}

	if changed {
		if err := s.saveRoom(ctx, room); err != nil {
			return nil, err
		}
		s.bumpUserStat(userID, "stats.rooms_joined")
		logger.LogRoomEvent("participant_joined", room.ID.Hex(), userID, nil)
	}

	return room, nil
}

func (s *RoomService) getRoomByInviteCode(ctx context.Context, inviteCode string) (*models.Room, error) {
	var room models.Room
	err := s.collection.FindOne(ctx, bson.M{"invite_code": inviteCode, "is_active": true}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room by invite code: %w", err)
	}

	return &room, nil
}

// BanUser bans targetID from the room and removes them from the
// participant list in the same save. Creator-only.
func (s *RoomService) BanUser(roomID, requesterID, targetID string) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.Creator != requesterID {
		return nil, ErrNotCreator
	}
	if targetID == requesterID {
		return nil, ErrSelfBan
	}

	if !room.IsBanned(targetID) {
		room.BannedUsers = append(room.BannedUsers, targetID)
	}
	purgeBanned(room)

	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	logger.LogRoomEvent("user_banned", roomID, requesterID, map[string]interface{}{"target": targetID})
	return room, nil
}

// UnbanUser lifts a ban. The user is not re-admitted, they join again
// through the normal paths. Creator-only.
func (s *RoomService) UnbanUser(roomID, requesterID, targetID string) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.Creator != requesterID {
		return nil, ErrNotCreator
	}

	kept := room.BannedUsers[:0]
	for _, id := range room.BannedUsers {
		if id != targetID {
			kept = append(kept, id)
		}
	}
	room.BannedUsers = kept

	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	logger.LogRoomEvent("user_unbanned", roomID, requesterID, map[string]interface{}{"target": targetID})
	return room, nil
}

// Directory

func (s *RoomService) ListActiveRooms() ([]models.RoomSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer cursor.Close(ctx)

	summaries := []models.RoomSummary{}
	for cursor.Next(ctx) {
		var room models.Room
		if err := cursor.Decode(&room); err != nil {
			return nil, fmt.Errorf("failed to decode room: %w", err)
		}
		summaries = append(summaries, room.Summary())
	}

	return summaries, cursor.Err()
}

// RandomActiveRoom picks one active room uniformly at random.
func (s *RoomService) RandomActiveRoom() (*models.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"is_active": true}},
		{"$sample": bson.M{"size": 1}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to sample rooms: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		return nil, ErrNoActiveRooms
	}

	var room models.Room
	if err := cursor.Decode(&room); err != nil {
		return nil, fmt.Errorf("failed to decode room: %w", err)
	}

	return &room, nil
}

// DeleteRoom soft-deletes a room. Creator-only. The document stays
// around with is_active=false, the name becomes reusable.
func (s *RoomService) DeleteRoom(roomID, requesterID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if room.Creator != requesterID {
		return ErrNotCreator
	}

	room.IsActive = false
	if err := s.saveRoom(ctx, room); err != nil {
		return err
	}

	logger.LogRoomEvent("room_deleted", roomID, requesterID, nil)
	return nil
}

// GetInviteCode returns the room's invite code. Creator-only.
func (s *RoomService) GetInviteCode(roomID, requesterID string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return "", err
	}

	if room.Creator != requesterID {
		return "", ErrNotCreator
	}

	if !room.IsPrivate || room.InviteCode == "" {
		return "", ErrInviteCodeMissing
	}

	return room.InviteCode, nil
}

// UpdateSettings applies an allow-listed settings patch. Creator-only.
// Fields outside SettingsUpdate never reach this function.
func (s *RoomService) UpdateSettings(roomID, requesterID string, upd SettingsUpdate) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.Creator != requesterID {
		return nil, ErrNotCreator
	}

	applySettingsUpdate(&room.Settings, upd)

	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	logger.LogRoomEvent("settings_updated", roomID, requesterID, nil)
	return room, nil
}

func applySettingsUpdate(settings *models.RoomSettings, upd SettingsUpdate) {
	if upd.MaxParticipants != nil && *upd.MaxParticipants > 0 {
		settings.MaxParticipants = *upd.MaxParticipants
	}
	if upd.AllowChat != nil {
		settings.AllowChat = *upd.AllowChat
	}
	if upd.AllowWatchlist != nil {
		settings.AllowWatchlist = *upd.AllowWatchlist
	}
	if upd.AllowTrivia != nil {
		settings.AllowTrivia = *upd.AllowTrivia
	}
	if upd.Autoplay != nil {
		settings.Autoplay = *upd.Autoplay
	}
	if upd.Description != nil {
		settings.Description = *upd.Description
	}
	if upd.VideoLink != nil {
		settings.VideoLink = *upd.VideoLink
	}
}

// Persistence helpers

// saveRoom writes the full document back. Concurrent writers race and
// the last full write wins, there is no version check.
func (s *RoomService) saveRoom(ctx context.Context, room *models.Room) error {
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": room.ID}, room)
	if err != nil {
		logger.LogError(err, "Failed to save room", map[string]interface{}{"room_id": room.ID.Hex()})
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// bumpUserStat increments an activity counter, best effort.
func (s *RoomService) bumpUserStat(userID, field string) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = s.users.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$inc": bson.M{field: 1}})
	if err != nil {
		logger.LogError(err, "Failed to update user stats", map[string]interface{}{
			"user_id": userID,
			"field":   field,
		})
	}
}
