package ssh

type Config struct {
	Host          string `json:"host"`
	Port          int    `json:"port"`
	User          string `json:"user"`
	Password      string `json:"password"`
	KeyPath       string `json:"key_path"`
	KeyPassphrase string `json:"key_passphrase"`
	RemotePath    string `json:"remote_path"`
}
