// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"database/sql"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mattermost/updatechecker/model"
)

const UpdateStateTableName = "UpdateState"

var updateStateSelect sq.SelectBuilder

func init() {
	updateStateSelect = sq.
		Select(
			"LastCheck",
			"CheckedVersion",
			"UpdateData",
		).
		From(UpdateStateTableName)
}

// GetUpdateState fetches the persisted state stored under key. A missing or
// undecodable state yields nil.
func (sqlStore *SQLStore) GetUpdateState(key string) (*model.UpdateCheckState, error) {
	var lastCheck int64
	var checkedVersion string
	var updateData sql.NullString

	err := sqlStore.scanBuilder(sqlStore.db,
		updateStateSelect.Where("Key = ?", key),
		&lastCheck, &checkedVersion, &updateData,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to get update state %s", key)
	}

	state := &model.UpdateCheckState{
		LastCheck:      lastCheck,
		CheckedVersion: checkedVersion,
	}
	if updateData.Valid && updateData.String != "" {
		update := new(model.UpdateRecord)
		err = json.Unmarshal([]byte(updateData.String), update)
		if err != nil {
			sqlStore.logger.WithError(err).Warnf("Ignoring malformed update state %s", key)
			return nil, nil
		}
		state.Update = update
	}

	return state, nil
}

// SaveUpdateState replaces the state stored under key with the given state.
func (sqlStore *SQLStore) SaveUpdateState(key string, state *model.UpdateCheckState) error {
	if state == nil {
		return errors.New("update state must not be nil")
	}

	var updateData interface{}
	if state.Update != nil {
		data, err := json.Marshal(state.Update)
		if err != nil {
			return errors.Wrap(err, "failed to encode update")
		}
		updateData = string(data)
	}

	_, err := sqlStore.execBuilder(sqlStore.db, sq.
		Insert(UpdateStateTableName).
		SetMap(map[string]interface{}{
			"Key":            key,
			"LastCheck":      state.LastCheck,
			"CheckedVersion": state.CheckedVersion,
			"UpdateData":     updateData,
		}).
		Suffix("ON CONFLICT (Key) DO UPDATE SET LastCheck = excluded.LastCheck, CheckedVersion = excluded.CheckedVersion, UpdateData = excluded.UpdateData"),
	)
	return errors.Wrapf(err, "failed to save update state %s", key)
}

// DeleteUpdateState removes the state stored under key, if any.
func (sqlStore *SQLStore) DeleteUpdateState(key string) error {
	_, err := sqlStore.execBuilder(sqlStore.db, sq.
		Delete(UpdateStateTableName).
		Where("Key = ?", key),
	)
	return errors.Wrapf(err, "failed to delete update state %s", key)
}

// GetUpdateStateKeys lists the keys of all persisted states.
func (sqlStore *SQLStore) GetUpdateStateKeys() ([]string, error) {
	var keys []string
	err := sqlStore.selectBuilder(sqlStore.db, &keys,
		sq.Select("Key").From(UpdateStateTableName).OrderBy("Key ASC"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list update states")
	}
	return keys, nil
}

// scanBuilder queries for a single row, building the sql, and scanning the
// columns positionally into dest.
func (sqlStore *SQLStore) scanBuilder(q sqlx.Queryer, b builder, dest ...interface{}) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build sql")
	}

	sql = sqlStore.db.Rebind(sql)

	return q.QueryRowx(sql, args...).Scan(dest...)
}
