package shader

import (
	"github.com/gogpu/shadergen"
	c "github.com/gogpu/shadergen/catalog"
)

type options = []shadergen.Option

func albedo() *shadergen.Method {
	changeColors := params(
		sampler("base_map"),
		sampler("detail_map"),
		sampler("change_color_map"),
		color3("primary_change_color").From(shadergen.ExternChangeColorPrimary),
		color3("secondary_change_color").From(shadergen.ExternChangeColorSecondary),
	)
	chameleon := params(
		color4("chameleon_color0"),
		color4("chameleon_color1"),
		color4("chameleon_color2"),
		color4("chameleon_color3"),
		float("chameleon_color_offset1"),
		float("chameleon_color_offset2"),
		float("chameleon_fresnel_power"),
	)
	twoDetail := params(sampler("base_map"), sampler("detail_map"), sampler("detail_map2"))

	return &shadergen.Method{
		Name: MethodAlbedo,
		Options: options{
			c.AlbedoDefault,
			c.AlbedoDetailBlend,
			c.AlbedoConstantColor,
			c.AlbedoTwoChangeColor,
			c.AlbedoFourChangeColor,
			c.AlbedoThreeDetailBlend,
			c.AlbedoTwoDetailOverlay,
			c.AlbedoTwoDetail,
			c.AlbedoColorMask,
			c.AlbedoTwoDetailBlackPoint,
			c.AlbedoTwoChangeColorAnimOverlay,
			c.AlbedoChameleon,
			c.AlbedoTwoChangeColorChameleon,
			c.AlbedoChameleonMasked,
			c.AlbedoColorMaskHardLight,
		},
		Macros: []shadergen.MethodMacro{
			{Name: "calc_albedo_ps", Prefix: "calc_albedo_", Suffix: "_ps"},
			{Name: "calc_albedo_vs", Prefix: "calc_albedo_", Suffix: "_vs", Only: options{c.AlbedoConstantColor}},
		},
		Pixel: shadergen.ParameterTable{
			c.AlbedoDefault:             params(sampler("base_map"), sampler("detail_map"), color4("albedo_color")),
			c.AlbedoDetailBlend:         twoDetail,
			c.AlbedoTwoDetail:           twoDetail,
			c.AlbedoTwoDetailBlackPoint: twoDetail,
			c.AlbedoConstantColor:       params(color4("albedo_color")),
			c.AlbedoTwoChangeColor:      changeColors,
			c.AlbedoFourChangeColor: append(changeColors.Clone(),
				color3("tertiary_change_color").From(shadergen.ExternChangeColorTertiary),
				color3("quaternary_change_color").From(shadergen.ExternChangeColorQuaternary),
			),
			c.AlbedoThreeDetailBlend: append(twoDetail.Clone(), sampler("detail_map3")),
			c.AlbedoTwoDetailOverlay: append(twoDetail.Clone(), sampler("detail_map_overlay")),
			c.AlbedoColorMask: params(
				sampler("base_map"),
				sampler("detail_map"),
				sampler("color_mask_map"),
				color4("albedo_color"),
				color4("albedo_color2"),
				color4("albedo_color3"),
				color4("neutral_gray"),
			),
			c.AlbedoTwoChangeColorAnimOverlay: append(changeColors.Clone(),
				float4("primary_change_color_anim").From(shadergen.ExternChangeColorPrimaryAnim),
				float4("secondary_change_color_anim").From(shadergen.ExternChangeColorSecondaryAnim),
			),
			c.AlbedoChameleon:               append(params(sampler("base_map"), sampler("detail_map")), chameleon...),
			c.AlbedoTwoChangeColorChameleon: append(changeColors.Clone(), chameleon...),
			c.AlbedoChameleonMasked: append(
				params(sampler("base_map"), sampler("detail_map"), sampler("chameleon_mask_map")),
				chameleon...),
			c.AlbedoColorMaskHardLight: params(
				sampler("base_map"),
				sampler("detail_map"),
				sampler("color_mask_map"),
				color4("albedo_color"),
			),
		},
	}
}

func bumpMapping() *shadergen.Method {
	return &shadergen.Method{
		Name:    MethodBumpMapping,
		Options: options{c.Off, c.BumpStandard, c.BumpDetail, c.BumpDetailMasked},
		Macros: []shadergen.MethodMacro{
			{Name: "calc_bumpmap_ps", Prefix: "calc_bumpmap_", Suffix: "_ps"},
			{Name: "calc_bumpmap_vs", Prefix: "calc_bumpmap_", Suffix: "_vs"},
		},
		Pixel: shadergen.ParameterTable{
			c.Off:          params(),
			c.BumpStandard: params(sampler("bump_map")),
			c.BumpDetail: params(
				sampler("bump_map"),
				sampler("bump_detail_map"),
				float("bump_detail_coefficient"),
			),
			c.BumpDetailMasked: params(
				sampler("bump_map"),
				sampler("bump_detail_map"),
				sampler("bump_detail_mask_map"),
				float("bump_detail_coefficient"),
			),
		},
	}
}

func alphaTest() *shadergen.Method {
	return &shadergen.Method{
		Name:    MethodAlphaTest,
		Options: options{c.None, c.AlphaTestSimple},
		Macros: []shadergen.MethodMacro{
			{Name: "calc_alpha_test_ps", Prefix: "calc_alpha_test_", Suffix: "_ps"},
		},
		Pixel: shadergen.ParameterTable{
			c.None:            params(),
			c.AlphaTestSimple: params(sampler("alpha_test_map")),
		},
	}
}

func specularMask() *shadergen.Method {
	return &shadergen.Method{
		Name: MethodSpecularMask,
		Options: options{
			c.SpecularMaskNone,
			c.SpecularMaskFromDiffuse,
			c.SpecularMaskFromTexture,
			c.SpecularMaskFromColorTexture,
		},
		Macros: []shadergen.MethodMacro{
			{Name: "calc_specular_mask_ps", Prefix: "calc_", Suffix: "_ps"},
		},
		Pixel: shadergen.ParameterTable{
			c.SpecularMaskNone:             params(),
			c.SpecularMaskFromDiffuse:      params(),
			c.SpecularMaskFromTexture:      params(sampler("specular_mask_texture")),
			c.SpecularMaskFromColorTexture: params(sampler("specular_mask_texture")),
		},
	}
}

func materialModel() *shadergen.Method {
	return &shadergen.Method{
		Name: MethodMaterialModel,
		Options: options{
			c.MaterialDiffuseOnly,
			c.MaterialCookTorrance,
			c.MaterialTwoLobePhong,
			c.MaterialFoliage,
			c.None,
			c.MaterialGlass,
			c.MaterialOrganism,
			c.MaterialSingleLobePhong,
			c.MaterialCarPaint,
		},
		Macros: []shadergen.MethodMacro{
			{Name: "calc_material_analytic_specular", Prefix: "calc_material_analytic_specular_", Suffix: "_ps"},
			{Name: "calc_material_area_specular", Prefix: "calc_material_area_specular_", Suffix: "_ps"},
			{Name: "calc_lighting_ps", Prefix: "calc_lighting_", Suffix: "_ps"},
			{Name: "calc_dynamic_lighting_ps", Prefix: "calc_dynamic_lighting_", Suffix: "_ps"},
			{Name: "material_type", Prefix: "material_type_"},
		},
		ArgName:     "material_type_arg",
		Unsupported: options{c.MaterialCarPaint},
		Pixel: shadergen.ParameterTable{
			c.MaterialDiffuseOnly: params(boolean("no_dynamic_lights")),
			c.MaterialCookTorrance: params(
				float("diffuse_coefficient"),
				float("specular_coefficient"),
				color3("specular_tint"),
				color3("fresnel_color"),
				float("use_fresnel_color_environment"),
				color3("fresnel_color_environment"),
				float("fresnel_power"),
				float("roughness"),
				float("area_specular_contribution"),
				float("analytical_specular_contribution"),
				float("environment_map_specular_contribution"),
				boolean("order3_area_specular"),
				boolean("use_material_texture"),
				sampler("material_texture"),
				boolean("no_dynamic_lights"),
				samplerNT("g_sampler_cc0236").From(shadergen.ExternCookTorranceCC0236),
				samplerNT("g_sampler_dd0236").From(shadergen.ExternCookTorranceDD0236),
				samplerNT("g_sampler_c78d78").From(shadergen.ExternCookTorranceC78D78),
				float("albedo_blend_with_specular_tint"),
				float("albedo_blend"),
				float("analytical_anti_shadow_control"),
				float("rim_fresnel_coefficient"),
				color3("rim_fresnel_color"),
				float("rim_fresnel_power"),
				float("rim_fresnel_albedo_blend"),
			),
			c.MaterialTwoLobePhong: params(
				float("diffuse_coefficient"),
				float("specular_coefficient"),
				float("normal_specular_power"),
				color3("normal_specular_tint"),
				float("glancing_specular_power"),
				color3("glancing_specular_tint"),
				float("fresnel_curve_steepness"),
				float("area_specular_contribution"),
				float("analytical_specular_contribution"),
				float("environment_map_specular_contribution"),
				boolean("order3_area_specular"),
				boolean("no_dynamic_lights"),
				float("albedo_specular_tint_blend"),
				float("analytical_anti_shadow_control"),
			),
			c.MaterialFoliage: params(boolean("no_dynamic_lights")),
			c.None:            params(),
			c.MaterialGlass: params(
				float("diffuse_coefficient"),
				float("specular_coefficient"),
				float("fresnel_coefficient"),
				float("fresnel_curve_steepness"),
				float("fresnel_curve_bias"),
				float("roughness"),
				float("analytical_specular_contribution"),
				float("area_specular_contribution"),
				boolean("no_dynamic_lights"),
			),
			c.MaterialOrganism: params(
				float("diffuse_coefficient"),
				color3("diffuse_tint"),
				float("analytical_specular_coefficient"),
				float("area_specular_coefficient"),
				color3("specular_tint"),
				float("specular_power"),
				sampler("specular_map"),
				float("environment_map_coefficient"),
				color3("environment_map_tint"),
				float("fresnel_curve_steepness"),
				float("rim_coefficient"),
				color3("rim_tint"),
				float("rim_power"),
				float("rim_start"),
				float("rim_maps_transition_ratio"),
				float("ambient_coefficient"),
				color3("ambient_tint"),
				sampler("occlusion_parameter_map"),
				float("subsurface_coefficient"),
				color3("subsurface_tint"),
				float("subsurface_propagation_bias"),
				float("subsurface_normal_detail"),
				sampler("subsurface_map"),
				float("transparence_coefficient"),
				color3("transparence_tint"),
				float("transparence_normal_bias"),
				float("transparence_normal_detail"),
				sampler("transparence_map"),
				color3("final_tint"),
				boolean("no_dynamic_lights"),
			),
			c.MaterialSingleLobePhong: params(
				float("diffuse_coefficient"),
				float("specular_coefficient"),
				float("roughness"),
				float("analytical_specular_contribution"),
				float("area_specular_contribution"),
				float("environment_map_specular_contribution"),
				color3("specular_tint"),
				boolean("order3_area_specular"),
				boolean("no_dynamic_lights"),
			),
			c.MaterialCarPaint: params(),
		},
	}
}

func environmentMapping() *shadergen.Method {
	cubemap := params(
		samplerNT("environment_map"),
		color3("env_tint_color"),
		float("env_roughness_scale"),
	)
	return &shadergen.Method{
		Name:    MethodEnvironmentMapping,
		Options: options{c.None, c.EnvPerPixel, c.EnvDynamic, c.EnvFromFlatTexture, c.EnvCustomMap},
		Macros: []shadergen.MethodMacro{
			{Name: "envmap_type", Prefix: "envmap_type_"},
		},
		ArgName: "envmap_type_arg",
		Pixel: shadergen.ParameterTable{
			c.None:        params(),
			c.EnvPerPixel: cubemap,
			c.EnvDynamic: params(
				color3("env_tint_color"),
				sampler("dynamic_environment_map_0").From(shadergen.ExternDynamicEnvironmentMap0),
				sampler("dynamic_environment_map_1").From(shadergen.ExternDynamicEnvironmentMap1),
				float("env_roughness_scale"),
			),
			c.EnvFromFlatTexture: params(
				samplerNT("flat_environment_map"),
				color3("env_tint_color"),
				float3("flat_envmap_matrix_x").From(shadergen.ExternFlatEnvmapMatrixX),
				float3("flat_envmap_matrix_y").From(shadergen.ExternFlatEnvmapMatrixY),
				float3("flat_envmap_matrix_z").From(shadergen.ExternFlatEnvmapMatrixZ),
				float("hemisphere_percentage"),
				float4("env_bloom_override"),
				float("env_bloom_override_intensity"),
			),
			c.EnvCustomMap: cubemap,
		},
	}
}

func selfIllumination() *shadergen.Method {
	simple := params(
		sampler("self_illum_map"),
		float4("self_illum_color"),
		float("self_illum_intensity"),
	)
	return &shadergen.Method{
		Name: MethodSelfIllumination,
		Options: options{
			c.Off,
			c.SelfIllumSimple,
			c.SelfIllumThreeChannel,
			c.SelfIllumPlasma,
			c.SelfIllumFromDiffuse,
			c.SelfIllumDetail,
			c.SelfIllumMeter,
			c.SelfIllumTimesDiffuse,
			c.SelfIllumSimpleWithAlphaMask,
			c.SelfIllumSimpleFourChangeColor,
		},
		Macros: []shadergen.MethodMacro{
			{Name: "calc_self_illumination_ps", Prefix: "calc_self_illumination_", Suffix: "_ps"},
		},
		Pixel: shadergen.ParameterTable{
			c.Off:             params(),
			c.SelfIllumSimple: simple,
			c.SelfIllumThreeChannel: params(
				sampler("self_illum_map"),
				float4("channel_a"),
				float4("channel_b"),
				float4("channel_c"),
				float("self_illum_intensity"),
			),
			c.SelfIllumPlasma: params(
				sampler("noise_map_a"),
				sampler("noise_map_b"),
				float4("color_medium"),
				float4("color_wide"),
				float4("color_sharp"),
				float("self_illum_intensity"),
				sampler("alpha_mask_map"),
				float("thinness_medium"),
				float("thinness_wide"),
				float("thinness_sharp"),
			),
			c.SelfIllumFromDiffuse: params(float4("self_illum_color"), float("self_illum_intensity")),
			c.SelfIllumDetail: params(
				sampler("self_illum_map"),
				sampler("self_illum_detail_map"),
				float4("self_illum_color"),
				float("self_illum_intensity"),
			),
			c.SelfIllumMeter: params(
				sampler("meter_map"),
				float4("meter_color_off"),
				float4("meter_color_on"),
				float("meter_value"),
			),
			c.SelfIllumTimesDiffuse:          append(simple.Clone(), float("primary_change_color_blend")),
			c.SelfIllumSimpleWithAlphaMask:   simple,
			c.SelfIllumSimpleFourChangeColor: params(sampler("self_illum_map"), float("self_illum_intensity")),
		},
	}
}

func blendMode() *shadergen.Method {
	return &shadergen.Method{
		Name:    MethodBlendMode,
		Options: c.BlendModes()[:6],
		Macros: []shadergen.MethodMacro{
			{Name: "blend_type", Prefix: "blend_type_"},
		},
		ArgName: "blend_type_arg",
		Pixel:   emptyTable(c.BlendModes()[:6]...),
	}
}

func parallax() *shadergen.Method {
	height := params(sampler("height_map"), float("height_scale"))
	return &shadergen.Method{
		Name:    MethodParallax,
		Options: options{c.Off, c.ParallaxSimple, c.ParallaxInterpolated, c.ParallaxSimpleDetail},
		Macros: []shadergen.MethodMacro{
			{Name: "calc_parallax_ps", Prefix: "calc_parallax_", Suffix: "_ps"},
			{
				Name:   "calc_parallax_vs",
				Prefix: "calc_parallax_",
				Suffix: "_vs",
				// Detail only changes the pixel stage.
				Substitute: map[shadergen.Option]shadergen.Option{c.ParallaxSimpleDetail: c.ParallaxSimple},
			},
		},
		Pixel: shadergen.ParameterTable{
			c.Off:                  params(),
			c.ParallaxSimple:       height,
			c.ParallaxInterpolated: height,
			c.ParallaxSimpleDetail: append(height.Clone(), sampler("height_scale_map")),
		},
	}
}

func misc() *shadergen.Method {
	opts := options{c.MiscFirstPersonNever, c.MiscFirstPersonNeverWithRotatingBitmaps}
	return &shadergen.Method{
		Name:    MethodMisc,
		Options: opts,
		Pixel:   emptyTable(opts...),
	}
}

func distortion() *shadergen.Method {
	return &shadergen.Method{
		Name:    MethodDistortion,
		Options: options{c.Off, c.On},
		Pixel: shadergen.ParameterTable{
			c.Off: params(),
			c.On:  params(sampler("distort_map"), float("distort_scale")),
		},
	}
}

func emptyTable(opts ...shadergen.Option) shadergen.ParameterTable {
	t := make(shadergen.ParameterTable, len(opts))
	for _, o := range opts {
		t[o] = params()
	}
	return t
}
