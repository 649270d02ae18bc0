package mockapi

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hitoshi/hrms/internal/model"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// CredentialFixture は資格情報テーブルの1エントリ。
type CredentialFixture struct {
	Key      string     `yaml:"key"`
	Password string     `yaml:"password"`
	User     model.User `yaml:"user"`
}

// Fixtures はモックAPIが使う初期データ。
type Fixtures struct {
	Credentials []CredentialFixture `yaml:"credentials"`
	Employees   []model.Employee    `yaml:"employees"`
}

// DefaultFixtures は埋め込みのフィクスチャを読み込む。
func DefaultFixtures() (*Fixtures, error) {
	fx := &Fixtures{}
	for _, name := range []string{"fixtures/users.yaml", "fixtures/employees.yaml"} {
		data, err := fixtureFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded fixture %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, fx); err != nil {
			return nil, fmt.Errorf("failed to parse embedded fixture %s: %w", name, err)
		}
	}
	return fx, nil
}

// LoadFixtures はフィクスチャを読み込む。pathが空なら埋め込みデータのみを使う。
// pathのファイルに含まれるセクション（credentials / employees）だけが埋め込みデータを置き換える。
func LoadFixtures(path string) (*Fixtures, error) {
	fx, err := DefaultFixtures()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return fx, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	var override Fixtures
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file: %w", err)
	}
	if override.Credentials != nil {
		fx.Credentials = override.Credentials
	}
	if override.Employees != nil {
		fx.Employees = override.Employees
	}

	for i, c := range fx.Credentials {
		if c.Key == "" {
			return nil, fmt.Errorf("credential %d: key is required", i)
		}
	}
	return fx, nil
}
