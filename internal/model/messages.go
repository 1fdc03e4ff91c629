// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// User-facing messages. The survey audience reads Burmese; these texts are
// fixed and not translated at runtime.
const (
	MsgAgeRequired               = "ကျေးဇူးပြု၍ သင့်အသက်အပိုင်းအခြားကို ရွေးချယ်ပါ"
	MsgLocationRequired          = "ကျေးဇူးပြု၍ သင့်နေထိုင်ရာဒေသကို ရွေးချယ်ပါ"
	MsgCityNameRequired          = "ကျေးဇူးပြု၍ မြို့အမည်ကို ဖော်ပြပါ"
	MsgOccupationRequired        = "ကျေးဇူးပြု၍ သင့်အလုပ်အကိုင်ကို ရွေးချယ်ပါ"
	MsgOccupationOtherRequired   = "ကျေးဇူးပြု၍ အခြားအလုပ်အကိုင်ကို ဖော်ပြပါ"
	MsgWillVoteRequired          = "ကျေးဇူးပြု၍ မဲပေးရန်အစီစဉ်ရှိမရှိကို ရွေးချယ်ပါ"
	MsgVotingFactorsRequired     = "ကျေးဇူးပြု၍ မဲပေးရာတွင် အဓိကထားသောအချက်များကို ရွေးချယ်ပါ"
	MsgWinningPartyRequired      = "ကျေးဇူးပြု၍ သာလွန်နိုင်ခြေရှိသောပါတီကို ရွေးချယ်ပါ"
	MsgCompetitionLevelRequired  = "ကျေးဇူးပြု၍ ပြိုင်ဆိုင်မှုအဆင့်ကို ရွေးချယ်ပါ"
	MsgCompetitionOtherRequired  = "ကျေးဇူးပြု၍ အခြားပြိုင်ဆိုင်မှုအဆင့်ကို ဖော်ပြပါ"
	MsgInterestsRequired         = "ကျေးဇူးပြု၍ စိတ်ဝင်စားသောအကြောင်းအရာများကို ရွေးချယ်ပါ"
	MsgExpectationsRequired      = "ကျေးဇူးပြု၍ မျှော်လင့်ချက်ကို ရွေးချယ်ပါ"
	MsgExpectationsOtherRequired = "ကျေးဇူးပြု၍ အခြားမျှော်လင့်ချက်ကို ဖော်ပြပါ"
	MsgConcernsRequired          = "ကျေးဇူးပြု၍ စိုးရိမ်စရာများကို ရွေးချယ်ပါ"
	MsgConcernsOtherRequired     = "ကျေးဇူးပြု၍ အခြားစိုးရိမ်စရာကို ဖော်ပြပါ"
	MsgConfidenceRequired        = "ကျေးဇူးပြု၍ ယုံကြည်မှုအဆင့်ကို ရွေးချယ်ပါ"

	// MsgInvalidChoiceSuffix follows the field name for unknown enum values.
	MsgInvalidChoiceSuffix = ": မမှန်ကန်သော ရွေးချယ်မှု"

	MsgRequiredFields = "ကျေးဇူးပြု၍ အားလုံးသော လိုအပ်သောအချက်များကို ဖြည့်စွက်ပါ"
	MsgSubmitSuccess  = "စစ်တမ်းကောက်ယူမှု အောင်မြင်စွာ ပြီးဆုံးပါပြီ"
	MsgSubmitFailed   = "စစ်တမ်းကောက်ယူမှုတွင် အမှားရှိနေပါသည်။ ကျေးဇူးပြု၍ ပြန်လည်ကြိုးစားပါ"
	MsgFetchFailed    = "ဒေတာရယူရာတွင် အမှားရှိနေပါသည်"
	MsgExportFailed   = "ဒေတာထုတ်ယူရာတွင် အမှားရှိနေပါသည်"
	MsgSessionFailed  = "စစ်တမ်းအခြေအနေကို သိမ်းဆည်းရာတွင် အမှားရှိနေပါသည်"

	MsgEmailPasswordRequired = "အီးမေးလ်နှင့် စကားဝှက်ကို ဖြည့်စွက်ပါ"
	MsgInvalidCredentials    = "အီးမေးလ် သို့မဟုတ် စကားဝှက် မှားယွင်းနေပါသည်"
	MsgLoginSuccess          = "အကောင့်ဝင်ရောက်မှု အောင်မြင်ပါသည်"
	MsgLoginFailed           = "အကောင့်ဝင်ရောက်မှုတွင် အမှားရှိနေပါသည်"
	MsgLogoutSuccess         = "အကောင့်ထွက်မှု အောင်မြင်ပါသည်"
	MsgTooManyAttempts       = "ကြိုးစားမှု များလွန်းပါသည်။ ခဏစောင့်ပြီး ပြန်လည်ကြိုးစားပါ"
	MsgUnauthorized          = "ကျေးဇူးပြု၍ အကောင့်ဝင်ရောက်ပါ"
	MsgRequestRejected       = "တောင်းဆိုမှုကို ပယ်ချလိုက်ပါသည်"
	MsgInvalidRequest        = "တောင်းဆိုမှု ပုံစံ မမှန်ကန်ပါ"

	// DefaultAdminName is the display name given to the seeded administrator.
	DefaultAdminName = "မြန်မာစစ်တမ်း စီမံခန့်ခွဲသူ"
)
