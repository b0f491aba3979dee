package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// GetConfig obtém um item de configuração
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("chave de configuração não encontrada: %s", key)
		}
		return "", err
	}
	return value, nil
}

// GetConfigFloat obtém um item de configuração numérico
func (s *Store) GetConfigFloat(key string) (float64, error) {
	value, err := s.GetConfig(key)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(value, 64)
}

// SetConfig grava um item de configuração
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// SetConfigFloat grava um item de configuração numérico
func (s *Store) SetConfigFloat(key string, value float64) error {
	return s.SetConfig(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// GetAllConfig obtém todos os itens de configuração
func (s *Store) GetAllConfig() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}

	return config, rows.Err()
}

// GetCurrentDatasetID obtém o dataset corrente da sessão.
// Devolve vazio quando nenhum dataset foi selecionado.
func (s *Store) GetCurrentDatasetID() (string, error) {
	var id string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", "current_dataset").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// SetCurrentDatasetID define o dataset corrente da sessão
func (s *Store) SetCurrentDatasetID(id string) error {
	return s.SetConfig("current_dataset", id)
}
