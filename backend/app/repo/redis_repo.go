package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"taskmanager/backend/app/models"

	"github.com/redis/go-redis/v9"
)

// Redis layout, all keys under a configurable prefix:
//
//	user:<id>              hash of user fields
//	users                  set of user ids
//	user:username:<name>   user id (uniqueness index)
//	user:email:<email>     user id (uniqueness index)
//	task:<id>              hash of task fields
//	tasks                  set of task ids
//	tasks:assignee:<uid>   set of task ids assigned to uid

type redisKeys string

func (p redisKeys) user(id string) string       { return string(p) + "user:" + id }
func (p redisKeys) users() string               { return string(p) + "users" }
func (p redisKeys) username(name string) string { return string(p) + "user:username:" + name }
func (p redisKeys) email(email string) string   { return string(p) + "user:email:" + email }
func (p redisKeys) task(id string) string       { return string(p) + "task:" + id }
func (p redisKeys) tasks() string               { return string(p) + "tasks" }
func (p redisKeys) assignee(uid string) string  { return string(p) + "tasks:assignee:" + uid }

type RedisUserRepository struct {
	rdb  *redis.Client
	keys redisKeys
}

func NewRedisUserRepository(rdb *redis.Client, prefix string) *RedisUserRepository {
	return &RedisUserRepository{rdb: rdb, keys: redisKeys(prefix)}
}

func (r *RedisUserRepository) Create(ctx context.Context, u *models.User) error {
	if err := r.claim(ctx, r.keys.username(u.Username), u.ID); err != nil {
		return err
	}
	if err := r.claim(ctx, r.keys.email(u.Email), u.ID); err != nil {
		r.rdb.Del(ctx, r.keys.username(u.Username))
		return err
	}
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, r.keys.user(u.ID), encodeUser(u))
		p.SAdd(ctx, r.keys.users(), u.ID)
		return nil
	})
	return err
}

func (r *RedisUserRepository) claim(ctx context.Context, key, id string) error {
	ok, err := r.rdb.SetNX(ctx, key, id, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicate
	}
	return nil
}

func (r *RedisUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	h, err := r.rdb.HGetAll(ctx, r.keys.user(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, ErrNotFound
	}
	return decodeUser(h)
}

func (r *RedisUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	id, err := r.rdb.Get(ctx, r.keys.username(username)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *RedisUserRepository) Taken(ctx context.Context, username, email, excludeID string) (bool, error) {
	for _, key := range []string{r.indexKey(r.keys.username, username), r.indexKey(r.keys.email, email)} {
		if key == "" {
			continue
		}
		owner, err := r.rdb.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return false, err
		}
		if owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *RedisUserRepository) indexKey(fn func(string) string, v string) string {
	if v == "" {
		return ""
	}
	return fn(v)
}

func (r *RedisUserRepository) ExistsByRole(ctx context.Context, role string) (bool, error) {
	ids, err := r.rdb.SMembers(ctx, r.keys.users()).Result()
	if err != nil {
		return false, err
	}
	cmds := make([]*redis.StringCmd, len(ids))
	_, err = r.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGet(ctx, r.keys.user(id), "role")
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	for _, c := range cmds {
		if c.Val() == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *RedisUserRepository) List(ctx context.Context, limit int) ([]models.User, error) {
	ids, err := r.rdb.SMembers(ctx, r.keys.users()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	hashes, err := hgetAll(ctx, r.rdb, ids, r.keys.user)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(hashes))
	for _, h := range hashes {
		u, err := decodeUser(h)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

func (r *RedisUserRepository) Update(ctx context.Context, id string, fields Fields) error {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	var release []string
	if v, ok := fields["username"].(string); ok && v != current.Username {
		if err := r.claim(ctx, r.keys.username(v), id); err != nil {
			return err
		}
		release = append(release, r.keys.username(current.Username))
	}
	if v, ok := fields["email"].(string); ok && v != current.Email {
		if err := r.claim(ctx, r.keys.email(v), id); err != nil {
			if u, ok := fields["username"].(string); ok && u != current.Username {
				r.rdb.Del(ctx, r.keys.username(u))
			}
			return err
		}
		release = append(release, r.keys.email(current.Email))
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, r.keys.user(id), encodeFields(fields))
		if len(release) > 0 {
			p.Del(ctx, release...)
		}
		return nil
	})
	return err
}

func (r *RedisUserRepository) Delete(ctx context.Context, id string) error {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.keys.user(id), r.keys.username(u.Username), r.keys.email(u.Email))
		p.SRem(ctx, r.keys.users(), id)
		return nil
	})
	return err
}

func (r *RedisUserRepository) Count(ctx context.Context) (int64, error) {
	return r.rdb.SCard(ctx, r.keys.users()).Result()
}

type RedisTaskRepository struct {
	rdb  *redis.Client
	keys redisKeys
}

func NewRedisTaskRepository(rdb *redis.Client, prefix string) *RedisTaskRepository {
	return &RedisTaskRepository{rdb: rdb, keys: redisKeys(prefix)}
}

func (r *RedisTaskRepository) Create(ctx context.Context, t *models.Task) error {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, r.keys.task(t.ID), encodeTask(t))
		p.SAdd(ctx, r.keys.tasks(), t.ID)
		p.SAdd(ctx, r.keys.assignee(t.AssignedTo), t.ID)
		return nil
	})
	return err
}

func (r *RedisTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	h, err := r.rdb.HGetAll(ctx, r.keys.task(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, ErrNotFound
	}
	return decodeTask(h)
}

func (r *RedisTaskRepository) members(ctx context.Context, assignedTo string) ([]string, error) {
	key := r.keys.tasks()
	if assignedTo != "" {
		key = r.keys.assignee(assignedTo)
	}
	return r.rdb.SMembers(ctx, key).Result()
}

func (r *RedisTaskRepository) List(ctx context.Context, assignedTo string, limit int) ([]models.Task, error) {
	ids, err := r.members(ctx, assignedTo)
	if err != nil {
		return nil, err
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	hashes, err := hgetAll(ctx, r.rdb, ids, r.keys.task)
	if err != nil {
		return nil, err
	}
	tasks := make([]models.Task, 0, len(hashes))
	for _, h := range hashes {
		t, err := decodeTask(h)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (r *RedisTaskRepository) Update(ctx context.Context, id string, fields Fields) error {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	newAssignee, moved := fields["assigned_to"].(string)
	moved = moved && newAssignee != current.AssignedTo
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, r.keys.task(id), encodeFields(fields))
		if moved {
			p.SRem(ctx, r.keys.assignee(current.AssignedTo), id)
			p.SAdd(ctx, r.keys.assignee(newAssignee), id)
		}
		return nil
	})
	return err
}

func (r *RedisTaskRepository) Delete(ctx context.Context, id string) error {
	assignedTo, err := r.rdb.HGet(ctx, r.keys.task(id), "assigned_to").Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.keys.task(id))
		p.SRem(ctx, r.keys.tasks(), id)
		p.SRem(ctx, r.keys.assignee(assignedTo), id)
		return nil
	})
	return err
}

func (r *RedisTaskRepository) CountByStatus(ctx context.Context, assignedTo string) (models.StatusCounts, error) {
	var counts models.StatusCounts
	ids, err := r.members(ctx, assignedTo)
	if err != nil {
		return counts, err
	}
	cmds := make([]*redis.StringCmd, len(ids))
	_, err = r.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGet(ctx, r.keys.task(id), "status")
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return counts, err
	}
	for _, c := range cmds {
		if c.Err() != nil {
			continue
		}
		tally(&counts, c.Val(), 1)
	}
	return counts, nil
}

// NewRedisStore builds a Store whose documents live in Redis hashes.
func NewRedisStore(rdb *redis.Client, prefix string) *Store {
	return &Store{
		Users: NewRedisUserRepository(rdb, prefix),
		Tasks: NewRedisTaskRepository(rdb, prefix),
		ping:  func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		close: rdb.Close,
	}
}

func hgetAll(ctx context.Context, rdb *redis.Client, ids []string, key func(string) string) ([]map[string]string, error) {
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	if _, err := rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, key(id))
		}
		return nil
	}); err != nil {
		return nil, err
	}
	out := make([]map[string]string, 0, len(cmds))
	for _, c := range cmds {
		// a member whose hash is gone was deleted concurrently
		if h := c.Val(); len(h) > 0 {
			out = append(out, h)
		}
	}
	return out, nil
}

func encodeFields(fields Fields) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch v := v.(type) {
		case bool:
			out[k] = strconv.FormatBool(v)
		case time.Time:
			out[k] = v.UTC().Format(time.RFC3339Nano)
		default:
			out[k] = v
		}
	}
	return out
}

func encodeUser(u *models.User) map[string]any {
	return encodeFields(Fields{
		"id":              u.ID,
		"username":        u.Username,
		"email":           u.Email,
		"full_name":       u.FullName,
		"role":            u.Role,
		"hashed_password": u.PasswordHash,
		"is_active":       u.IsActive,
		"created_at":      u.CreatedAt,
	})
}

func decodeUser(h map[string]string) (*models.User, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, h["created_at"])
	if err != nil {
		return nil, fmt.Errorf("decode user %s created_at: %w", h["id"], err)
	}
	active, _ := strconv.ParseBool(h["is_active"])
	return &models.User{
		ID:           h["id"],
		Username:     h["username"],
		Email:        h["email"],
		FullName:     h["full_name"],
		Role:         h["role"],
		PasswordHash: h["hashed_password"],
		IsActive:     active,
		CreatedAt:    createdAt,
	}, nil
}

func encodeTask(t *models.Task) map[string]any {
	return encodeFields(Fields{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"assigned_to": t.AssignedTo,
		"assigned_by": t.AssignedBy,
		"status":      t.Status,
		"deadline":    t.Deadline,
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
	})
}

func decodeTask(h map[string]string) (*models.Task, error) {
	t := &models.Task{
		ID:          h["id"],
		Title:       h["title"],
		Description: h["description"],
		AssignedTo:  h["assigned_to"],
		AssignedBy:  h["assigned_by"],
		Status:      h["status"],
	}
	for field, dst := range map[string]*time.Time{"deadline": &t.Deadline, "created_at": &t.CreatedAt, "updated_at": &t.UpdatedAt} {
		v, err := time.Parse(time.RFC3339Nano, h[field])
		if err != nil {
			return nil, fmt.Errorf("decode task %s %s: %w", t.ID, field, err)
		}
		*dst = v
	}
	return t, nil
}
