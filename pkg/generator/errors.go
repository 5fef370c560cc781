package generator

import (
	"errors"
	"fmt"
)

// ConfigError は APIキーの欠落や未知のプロバイダ名など、
// どの行に対しても成功し得ない構成段階の失敗です。実行前に全体を中断させます。
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("構成エラー: %s", e.Reason)
}

// IsConfigError は err が ConfigError かどうかを判定します。
func IsConfigError(err error) bool {
	var t *ConfigError
	return errors.As(err, &t)
}

// ProviderError は生成APIからの異常応答（非2xxステータスや不正なボディ）です。
// 行ローカルな失敗として記録され、バッチは継続します。
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: プロバイダ応答エラー (status=%d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: プロバイダ応答エラー: %s", e.Provider, e.Message)
}

// IsProviderError は err が ProviderError かどうかを判定します。
func IsProviderError(err error) bool {
	var t *ProviderError
	return errors.As(err, &t)
}

// TimeoutError はポーリングの試行回数を使い切っても完了しなかった失敗です。
type TimeoutError struct {
	Provider string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: %d回のポーリングでも生成が完了しませんでした", e.Provider, e.Attempts)
}

// IsTimeoutError は err が TimeoutError かどうかを判定します。
func IsTimeoutError(err error) bool {
	var t *TimeoutError
	return errors.As(err, &t)
}

// TransportError はネットワーク層の失敗です。原因エラーを保持します。
type TransportError struct {
	Provider string
	Cause    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: 通信エラー: %v", e.Provider, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// IsTransportError は err が TransportError かどうかを判定します。
func IsTransportError(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}
