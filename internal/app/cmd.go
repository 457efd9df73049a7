package app

import (
	"context"
	"sort"
)

// Command はアプリケーションのサブコマンドを表す。
type Command string

const (
	// CommandServe はコンソールサーバーを起動する。
	CommandServe Command = "serve"
	// CommandHealthcheck はヘルスチェックを実行する。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
	// CommandHelp はコマンド一覧を表示する。
	CommandHelp Command = "help"

	CommandLogin  Command = "login"
	CommandVerify Command = "verify"
	CommandLogout Command = "logout"
	CommandWhoami Command = "whoami"

	CommandDashboard Command = "dashboard"
	CommandPayments  Command = "payments"
	CommandAnalytics Command = "analytics"
	CommandWatch     Command = "watch"

	CommandJobTimeline      Command = "job-timeline"
	CommandJobsDetailed     Command = "jobs-detailed"
	CommandPaymentsDetailed Command = "payments-detailed"
	CommandProtectionPool   Command = "protection-pool"

	CommandUsers          Command = "users"
	CommandKYC            Command = "kyc"
	CommandUser           Command = "user"
	CommandDocuments      Command = "documents"
	CommandApproveKYC     Command = "approve-kyc"
	CommandRejectKYC      Command = "reject-kyc"
	CommandHold           Command = "hold"
	CommandSuspend        Command = "suspend"
	CommandActivate       Command = "activate"
	CommandFreezeWallet   Command = "freeze-wallet"
	CommandUnfreezeWallet Command = "unfreeze-wallet"

	CommandWithdrawals       Command = "withdrawals"
	CommandProcessWithdrawal Command = "process-withdrawal"
	CommandRejectWithdrawal  Command = "reject-withdrawal"
	CommandSettlements       Command = "settlements"
	CommandRetrySettlement   Command = "retry-settlement"
	CommandDisputes          Command = "disputes"
	CommandDispute           Command = "dispute"
	CommandUpdateDispute     Command = "update-dispute"
	CommandAudit             Command = "audit"
	CommandRefunds           Command = "refunds"
)

// commandFunc はサブコマンドの実装。argsはサブコマンド名を除いた引数。
type commandFunc func(ctx context.Context, c *cli, args []string) error

// commandSpec はサブコマンドの定義。
type commandSpec struct {
	summary string
	// needsSession がtrueのコマンドは保存済みのセッションがなければ実行しない。
	needsSession bool
	run          commandFunc
}

// commands はサブコマンドの一覧。cmdHelpが参照するためinitで登録する。
var commands map[Command]commandSpec

func init() {
	commands = map[Command]commandSpec{
		CommandServe:  {summary: "コンソールサーバーを起動する", run: cmdServe},
		CommandHelp:   {summary: "コマンド一覧を表示する", run: cmdHelp},
		CommandLogin:  {summary: "OTPを送信する: login <電話番号>", run: cmdLogin},
		CommandVerify: {summary: "OTPを検証してログインする: verify --phone <電話番号> --otp <OTP>", run: cmdVerify},
		CommandLogout: {summary: "セッションを破棄する", run: cmdLogout},
		CommandWhoami: {summary: "ログイン中の管理者とトークンの有効期限を表示する", needsSession: true, run: cmdWhoami},

		CommandDashboard: {summary: "ダッシュボードの集計値を表示する", needsSession: true, run: cmdDashboard},
		CommandPayments:  {summary: "支払い概要を表示する", needsSession: true, run: cmdPayments},
		CommandAnalytics: {summary: "分析ダッシュボードを1回取得して表示する", needsSession: true, run: cmdAnalytics},
		CommandWatch:     {summary: "分析ダッシュボードを定期的に再取得して表示する", needsSession: true, run: cmdWatch},

		CommandJobTimeline:      {summary: "求人のイベント時系列を表示する: job-timeline <求人ID>", needsSession: true, run: cmdJobTimeline},
		CommandJobsDetailed:     {summary: "求人の詳細分析を表示する", needsSession: true, run: cmdJobsDetailed},
		CommandPaymentsDetailed: {summary: "決済の詳細分析を表示する", needsSession: true, run: cmdPaymentsDetailed},
		CommandProtectionPool:   {summary: "賃金保護プールの分析を表示する", needsSession: true, run: cmdProtectionPool},

		CommandUsers:          {summary: "ユーザー一覧を表示する", needsSession: true, run: cmdUsers},
		CommandKYC:            {summary: "KYC審査待ちの一覧を表示する", needsSession: true, run: cmdKYC},
		CommandUser:           {summary: "ユーザー詳細を表示する: user <ユーザーID>", needsSession: true, run: cmdUser},
		CommandDocuments:      {summary: "本人確認書類の閲覧用URLを表示する: documents <ユーザーID>", needsSession: true, run: cmdDocuments},
		CommandApproveKYC:     {summary: "KYCを承認する: approve-kyc <ユーザーID> --reason <理由>", needsSession: true, run: userAction(CommandApproveKYC)},
		CommandRejectKYC:      {summary: "KYCを却下する: reject-kyc <ユーザーID> --reason <理由>", needsSession: true, run: userAction(CommandRejectKYC)},
		CommandHold:           {summary: "ユーザーを保留にする: hold <ユーザーID> --reason <理由>", needsSession: true, run: userAction(CommandHold)},
		CommandSuspend:        {summary: "ユーザーを停止する: suspend <ユーザーID> --reason <理由>", needsSession: true, run: userAction(CommandSuspend)},
		CommandActivate:       {summary: "ユーザーを有効化する: activate <ユーザーID> --reason <理由>", needsSession: true, run: userAction(CommandActivate)},
		CommandFreezeWallet:   {summary: "ウォレットを凍結する: freeze-wallet <ユーザーID> --reason <理由>", needsSession: true, run: userAction(CommandFreezeWallet)},
		CommandUnfreezeWallet: {summary: "ウォレットの凍結を解除する: unfreeze-wallet <ユーザーID> --reason <理由>", needsSession: true, run: userAction(CommandUnfreezeWallet)},

		CommandWithdrawals:       {summary: "出金申請の一覧を表示する", needsSession: true, run: cmdWithdrawals},
		CommandProcessWithdrawal: {summary: "出金申請を処理済みにする: process-withdrawal <申請ID> --ref <振込参照番号>", needsSession: true, run: cmdProcessWithdrawal},
		CommandRejectWithdrawal:  {summary: "出金申請を却下する: reject-withdrawal <申請ID> --reason <理由>", needsSession: true, run: cmdRejectWithdrawal},
		CommandSettlements:       {summary: "精算試行の一覧を表示する", needsSession: true, run: cmdSettlements},
		CommandRetrySettlement:   {summary: "精算を再試行する: retry-settlement <求人ID> --reason <理由>", needsSession: true, run: cmdRetrySettlement},
		CommandDisputes:          {summary: "紛争の一覧を表示する", needsSession: true, run: cmdDisputes},
		CommandDispute:           {summary: "紛争の詳細を表示する: dispute <紛争ID>", needsSession: true, run: cmdDispute},
		CommandUpdateDispute:     {summary: "紛争を更新する: update-dispute <紛争ID> --status <状態> --notes <メモ>", needsSession: true, run: cmdUpdateDispute},
		CommandAudit:             {summary: "監査ログを表示する", needsSession: true, run: cmdAudit},
		CommandRefunds:           {summary: "返金申請の一覧を表示する", needsSession: true, run: cmdRefunds},
	}
}

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空の場合はCommandServeを返す。サポート外のコマンドの場合はokがfalse。
func ParseCommand(args []string) (cmd Command, ok bool) {
	if len(args) == 0 {
		return CommandServe, true
	}
	cmd = Command(args[0])
	if cmd == CommandHealthcheck {
		return cmd, true
	}
	switch args[0] {
	case "-h", "--help":
		return CommandHelp, true
	}
	_, ok = commands[cmd]
	return cmd, ok
}

// commandNames はヘルプ表示用にソート済みのコマンド名を返す。
func commandNames() []string {
	names := make([]string, 0, len(commands)+1)
	for name := range commands {
		names = append(names, string(name))
	}
	names = append(names, string(CommandHealthcheck))
	sort.Strings(names)
	return names
}
