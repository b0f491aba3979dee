package store

import "fmt"

// CreateImportLog cria um registro de importação, devolve o id
func (s *Store) CreateImportLog(datasetID, filename string, fileSize int64) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (dataset_id, filename, file_size, status)
		VALUES (?, ?, ?, 'running')
	`, datasetID, filename, fileSize)
	if err != nil {
		return 0, fmt.Errorf("falha ao criar registro de importação: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("falha ao obter id do registro de importação: %w", err)
	}
	return id, nil
}

// CompleteImportLog finaliza um registro de importação
func (s *Store) CompleteImportLog(id int64, totalSheets, totalRows, importedRows, errorRows int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			total_sheets = ?,
			total_rows = ?,
			imported_rows = ?,
			error_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, totalSheets, totalRows, importedRows, errorRows, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("falha ao atualizar registro de importação: %w", err)
	}
	return nil
}
