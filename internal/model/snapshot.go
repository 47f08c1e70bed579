package model

// SnapshotFile represents the encrypted ledger snapshot on disk
type SnapshotFile struct {
	Network    string `json:"network"`
	ProgramID  string `json:"programId"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
	UpdatedAt  string `json:"updatedAt"`
}
