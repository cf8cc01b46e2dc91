// wireschema 导出 WebSocket 协议载荷的 JSON Schema，供前端校验与生成类型
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"sidebrawl/server"
)

// inbound 客户端 -> 服务端，字段名即事件 type
type inbound struct {
	PlayerMove     server.MoveInput   `json:"playerMove"`
	PlayerAttack   server.AttackInput `json:"playerAttack"`
	CollectPowerup string             `json:"collectPowerup" jsonschema:"description=powerup id"`
	DamageEnemy    string             `json:"damageEnemy" jsonschema:"description=enemy id"`
	PlayerDamaged  int                `json:"playerDamaged" jsonschema:"minimum=0"`
	LevelComplete  struct{}           `json:"levelComplete" jsonschema:"description=no payload"`
}

// outbound 服务端 -> 客户端
type outbound struct {
	GameState          server.GameState        `json:"gameState"`
	PlayerJoined       server.PlayerState      `json:"playerJoined"`
	PlayerMoved        server.PlayerMoved      `json:"playerMoved"`
	PlayerAttacked     server.PlayerAttacked   `json:"playerAttacked"`
	PowerupCollected   server.PowerupCollected `json:"powerupCollected"`
	EnemyDestroyed     string                  `json:"enemyDestroyed"`
	PlayerHealthUpdate server.HealthUpdate     `json:"playerHealthUpdate"`
	PlayerLeft         string                  `json:"playerLeft"`
	EnemiesUpdate      []server.EnemyState     `json:"enemiesUpdate"`
	LevelCompleted     string                  `json:"levelCompleted"`
}

type protocol struct {
	Inbound  inbound  `json:"inbound"`
	Outbound outbound `json:"outbound"`
}

func main() {
	var (
		outPath string
		check   bool
	)
	flag.StringVar(&outPath, "out", "", "schema file; empty writes to stdout")
	flag.BoolVar(&check, "check", false, "exit non-zero if -out is missing or stale instead of writing it")
	flag.Parse()

	data, err := render(buildSchema())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch {
	case outPath == "":
		_, err = os.Stdout.Write(data)
	case check:
		err = verify(outPath, data)
	default:
		err = replaceFile(outPath, data)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "wireschema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(protocol))
	schema.Title = "Sidebrawl Wire Protocol"
	schema.Description = "Payloads carried in the data field of {\"type\", \"data\"} websocket envelopes, keyed by type"
	return schema
}

// render 两空格缩进、末尾换行，保证重复生成字节一致
func render(schema *jsonschema.Schema) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schema); err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	return buf.Bytes(), nil
}

// verify 供 CI 使用：已提交的 schema 必须与当前类型一致
func verify(path string, want []byte) error {
	got, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%s is stale, regenerate with -out %s", path, path)
	}
	return nil
}

// replaceFile 在同目录写临时文件后改名，读者不会看到写了一半的 schema
func replaceFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
