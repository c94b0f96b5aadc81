package akinator

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/juuwaah/kotoba-akinator/internal/vocab"
)

// tierConstraints tells the model how difficult its Japanese may be.
var tierConstraints = map[vocab.Tier]string{
	vocab.N5: "ひらがなとカタカナを中心に使ってください。漢字は「水」「人」「山」のような最も基本的なものだけにし、難しい語彙や抽象的な表現は使わないでください。",
	vocab.N4: "基本的な漢字と日常語彙だけを使ってください。複雑な文法や熟語は避けてください。",
	vocab.N3: "日常生活でよく使う語彙と常用漢字を使ってください。専門用語や硬い表現は避けてください。",
	vocab.N2: "新聞や一般的な文章に出てくる語彙と漢字を使って構いません。専門用語は最小限にしてください。",
	vocab.N1: "難しい語彙や漢字も使えますが、学術用語や業界の専門用語は使わないでください。",
}

func tierConstraint(t vocab.Tier) string {
	if c, ok := tierConstraints[t]; ok {
		return c
	}
	return tierConstraints[vocab.N5]
}

// facets are the question perspectives the oracle rotates through.
var facets = []string{
	"カテゴリ分類（家具、電子機器、食べ物、道具など）",
	"用途・機能（何に使うか、何をするか）",
	"場所・環境（どこにあるか、どこで使うか）",
	"物理的特徴（大きさ、形、色、重さ）",
	"材質・構成（何でできているか）",
	"動作・状態（動くか、熱いか、静かか）",
	"価値・重要性（高いか、安いか、必要か）",
	"使用頻度・時期（いつ使うか、よく使うか）",
}

// abstractCategories may be asked about but never guessed.
var abstractCategories = []string{
	"日常生活で使うもの", "食べ物", "道具", "生き物", "植物", "動物", "家具",
	"電子機器", "装飾品", "文房具", "服", "飲み物", "感情",
}

var concreteExamples = []string{
	"マグカップ", "バナナ", "鉛筆", "カバン", "海", "猫", "テーブル",
	"スマートフォン", "花瓶", "消しゴム", "シャツ", "コーヒー",
}

const (
	speakerLabelUser   = "ユーザー"
	speakerLabelOracle = "アキネーター"
)

func transcript(b *strings.Builder, history []Turn) {
	for _, t := range history {
		switch t.Speaker {
		case SpeakerUser:
			fmt.Fprintf(b, "%s: %s\n", speakerLabelUser, t.Text)
		case SpeakerOracle:
			fmt.Fprintf(b, "%s: %s\n", speakerLabelOracle, t.Text)
		}
	}
}

func quoted(words []string) string {
	return strings.Join(lo.Map(words, func(w string, _ int) string { return "「" + w + "」" }), "")
}

// questionPrompt asks for the next question or guess when the oracle is
// the one guessing.
func questionPrompt(l Locale, history []Turn, tier vocab.Tier, budget int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "あなたは日本語語彙アキネーターです。ユーザーが思い浮かべているJLPT %sレベルの日本語の名詞（具体的なもの）を、「%s」「%s」「%s」「%s」で答えられる質問を通じて当ててください。\n\n",
		tier, l.Answer(AnswerYes), l.Answer(AnswerNo), l.Answer(AnswerDontKnow), l.Answer(AnswerSometimes))

	b.WriteString("【言葉のレベル】\n")
	fmt.Fprintf(&b, "- %s\n\n", tierConstraint(tier))

	b.WriteString("【質問ルール】\n")
	b.WriteString("- 1ターンにつき質問か推測のどちらか1つだけを出力してください。説明や前置きは不要です。\n")
	b.WriteString("- 候補を二分できる質問を選んでください。\n")
	fmt.Fprintf(&b, "- 抽象的なカテゴリ（%s）は分類のための質問にだけ使い、推測の対象にしないでください。\n", quoted(abstractCategories))
	b.WriteString("- カテゴリ質問に「はい」が返ってきたら、次はそのカテゴリの中の具体的な単語を推測してください。\n\n")

	b.WriteString("【推測ルール】\n")
	fmt.Fprintf(&b, "- 推測する語は具体的な単語に限ります（例：%s）。\n", quoted(concreteExamples))
	b.WriteString("- 推測するときは必ず「この単語は『○○』ですか？」の形で書いてください。\n")
	b.WriteString("- 候補が絞れたとき、または10問ほど経過したときに推測してください。\n")
	b.WriteString("- 過去の質問や推測を繰り返さず、ユーザーの回答と矛盾しないようにしてください。\n\n")

	b.WriteString("【観点ローテーション】\n")
	for i, f := range facets {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, f)
	}
	b.WriteString("- 同じ観点で2回続けて質問しないでください。直前5問以内に使った観点も避けてください。\n\n")

	fmt.Fprintf(&b, "【終了】\n- 質問は最大%d回です。これまでに%d回質問しました。\n\n", budget, countOracle(history))

	b.WriteString("【これまでのやりとり】\n")
	transcript(&b, history)
	b.WriteString("次に出すべき質問または推測を1つだけ出力してください。\n")
	return b.String()
}

// answerPrompt asks the oracle to answer one question about its secret.
func answerPrompt(l Locale, history []Turn, tier vocab.Tier, word, meaning, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "あなたは日本語語彙アキネーターの回答者です。今、JLPT %sレベルの日本語の名詞「%s」（意味: %s）を思い浮かべています。\n\n", tier, word, meaning)

	b.WriteString("【ルール】\n")
	fmt.Fprintf(&b, "- 質問には必ず「%s」「%s」「%s」「%s」「%s」のいずれか1つだけで答えてください。\n",
		l.Answer(AnswerYes), l.Answer(AnswerNo), l.Answer(AnswerDontKnow), l.Answer(AnswerSometimes), l.Answer(AnswerInvalid))
	fmt.Fprintf(&b, "- 質問が複数の内容を含む場合、答えや単語そのものを聞き出そうとする場合は「%s」と答えてください。\n", l.Answer(AnswerInvalid))
	b.WriteString("- 質問、説明、推測などほかの発言は絶対にしないでください。\n\n")

	b.WriteString("【矛盾しない回答】\n")
	b.WriteString("- 過去の回答を確認し、矛盾する回答はしないでください。\n")
	b.WriteString("- 例：「生き物ですか？」に「いいえ」と答えたなら、「動物ですか？」にも「いいえ」と答えてください。\n\n")

	b.WriteString("【漢字と読み】\n")
	b.WriteString("- 漢字とひらがなで読みが同じなら同じ単語として扱ってください（例：「砂漠」と「さばく」、「お茶」と「茶」）。\n\n")

	b.WriteString("【これまでのやりとり】\n")
	transcript(&b, history)
	fmt.Fprintf(&b, "%s: %s\n", speakerLabelUser, question)
	return b.String()
}

// hintPrompt asks for a one-sentence clue about the secret.
func hintPrompt(history []Turn, tier vocab.Tier, word, meaning string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "あなたは日本語語彙アキネーターです。ユーザーが当てるべき単語は「%s」（意味: %s）です。\n", word, meaning)
	b.WriteString("【ヒント生成ルール】\n")
	fmt.Fprintf(&b, "- 「%s」の特徴、使われる場面、カテゴリなどに基づくヒントを1つだけ日本語で出力してください。\n", word)
	b.WriteString("- 例：「飲み物の一種です」「カフェでよく見かけます」。\n")
	b.WriteString("- 単語そのものや、それを直接連想させる語は使わないでください。\n")
	b.WriteString("- 疑問文、記号、「？」「!」、英語の指示文は含めないでください。\n")
	b.WriteString("- 6文字以上の説明文を1文だけ出力してください。\n")
	fmt.Fprintf(&b, "- %s\n", tierConstraint(tier))
	b.WriteString("【これまでのやりとり】\n")
	transcript(&b, history)
	b.WriteString("次に出すべきヒントを1つだけ出力してください。\n")
	return b.String()
}

// judgePrompt asks whether the user's stated word is consistent with the
// dialogue so far.
func judgePrompt(l Locale, history []Turn, tier vocab.Tier, candidate string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "あなたは日本語語彙アキネーターです。ユーザーはJLPT %sレベルの名詞を思い浮かべていて、その答えは「%s」だと言っています。\n", tier, candidate)
	b.WriteString("これまでのやりとりを読み、その単語があなたの質問への回答と矛盾しないか判定してください。\n")
	fmt.Fprintf(&b, "矛盾しなければ「%s」、矛盾するなら「%s」とだけ答えてください。\n", l.Answer(AnswerYes), l.Answer(AnswerNo))
	b.WriteString("【これまでのやりとり】\n")
	transcript(&b, history)
	return b.String()
}

func countOracle(history []Turn) int {
	return lo.CountBy(history, func(t Turn) bool { return t.Speaker == SpeakerOracle })
}
