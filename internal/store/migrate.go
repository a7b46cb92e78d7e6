// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/blang/semver"
	"github.com/pkg/errors"
)

const (
	systemTableName          = "System"
	systemDatabaseVersionKey = "DatabaseVersion"
)

// CurrentVersion returns the version of the schema, or 0.0.0 for an empty
// database.
func (sqlStore *SQLStore) CurrentVersion() (semver.Version, error) {
	exists, err := sqlStore.tableExists(systemTableName)
	if err != nil {
		return semver.Version{}, err
	}
	if !exists {
		return semver.MustParse("0.0.0"), nil
	}

	var value string
	err = sqlStore.getBuilder(sqlStore.db, &value,
		sq.Select("Value").From(systemTableName).Where("Key = ?", systemDatabaseVersionKey))
	if err == sql.ErrNoRows {
		return semver.MustParse("0.0.0"), nil
	} else if err != nil {
		return semver.Version{}, errors.Wrap(err, "failed to query the database version")
	}

	currentVersion, err := semver.Parse(value)
	if err != nil {
		return semver.Version{}, errors.Wrapf(err, "failed to parse database version %q", value)
	}

	return currentVersion, nil
}

// LatestVersion returns the version the migrations advance the schema to.
func LatestVersion() semver.Version {
	return migrations[len(migrations)-1].toVersion
}

// Migrate advances the schema to the latest version, applying each pending
// migration in its own transaction.
func (sqlStore *SQLStore) Migrate() error {
	currentVersion, err := sqlStore.CurrentVersion()
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if !currentVersion.EQ(migration.fromVersion) {
			continue
		}

		err := sqlStore.applyMigration(migration)
		if err != nil {
			return errors.Wrapf(err, "failed to migrate from %s to %s", migration.fromVersion, migration.toVersion)
		}

		sqlStore.logger.Infof("Schema migrated to version %s", migration.toVersion)
		currentVersion = migration.toVersion
	}

	return nil
}

func (sqlStore *SQLStore) applyMigration(m migration) error {
	tx, err := sqlStore.beginTransaction()
	if err != nil {
		return err
	}
	defer tx.RollbackUnlessCommitted()

	err = m.migrationFunc(tx)
	if err != nil {
		return err
	}

	if m.fromVersion.EQ(semver.MustParse("0.0.0")) {
		_, err = sqlStore.execBuilder(tx, sq.
			Insert(systemTableName).
			SetMap(map[string]interface{}{
				"Key":   systemDatabaseVersionKey,
				"Value": m.toVersion.String(),
			}),
		)
	} else {
		_, err = sqlStore.execBuilder(tx, sq.
			Update(systemTableName).
			Set("Value", m.toVersion.String()).
			Where("Key = ?", systemDatabaseVersionKey),
		)
	}
	if err != nil {
		return errors.Wrap(err, "failed to record the database version")
	}

	return tx.Commit()
}
